package sfv

// MergeDictionary returns a copy of a overlaid with b. Keys of b already in a
// keep a's position and take b's value; new keys are appended in b's order.
// MergeDictionary(MergeDictionary(a, b), c) equals
// MergeDictionary(a, MergeDictionary(b, c)).
func MergeDictionary(a, b Dictionary) Dictionary {
	result := a.Clone()
	result.m.mergeFrom(&b.m, cloneMember)
	return result
}

// MergeParameters returns a copy of a overlaid with b, with the same rules as
// MergeDictionary.
func MergeParameters(a, b Parameters) Parameters {
	result := a.Clone()
	result.m.mergeFrom(&b.m, cloneBareItem)
	return result
}
