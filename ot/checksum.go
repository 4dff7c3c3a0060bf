package ot

// tableChecksum computes the checksum of a font table: the sum of its
// big-endian uint32 words, the last word padded with zeros. For table 'head'
// the word holding checkSumAdjustment is left out.
func tableChecksum(tag Tag, b []byte) uint32 {
	var sum uint32
	n := len(b) / 4
	for i := 0; i < n; i++ {
		if tag == T("head") && i == 2 {
			continue
		}
		sum += u32(b[i*4:])
	}
	if rest := len(b) % 4; rest > 0 {
		var last [4]byte
		copy(last[:], b[n*4:])
		sum += u32(last[:])
	}
	return sum
}

// verifyChecksums recomputes the checksum of every table listed in the
// directory. Mismatches are recorded as warnings wrapping ErrChecksumMismatch;
// a mismatch never renders the font unusable.
func verifyChecksums(src binarySegm, dir *TableDirectory, ec *errorCollector) int {
	mismatches := 0
	for _, rec := range dir.Records() {
		b, err := src.view(int(rec.Offset), int(rec.Length))
		if err != nil {
			continue // bounds have been checked while reading the directory
		}
		if sum := tableChecksum(rec.Tag, b); sum != rec.Checksum {
			tracer().Infof("checksum mismatch for table %s: %08x != %08x", rec.Tag, sum, rec.Checksum)
			ec.warnErr(rec.Tag, rec.Offset, ErrChecksumMismatch, "checksum %08x, directory states %08x", sum, rec.Checksum)
			mismatches++
		}
	}
	return mismatches
}
