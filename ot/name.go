package ot

const (
	nameHeaderSize = 6
	nameRecordSize = 12
)

// NameRecord is an entry of table 'name'. Its value is kept undecoded, as
// the encoding depends on platform and encoding ID.
type NameRecord struct {
	PlatformID uint16
	EncodingID uint16
	LanguageID uint16
	NameID     uint16
	Value      []byte // raw string bytes, a view into the font data
}

// NameTable allows multilingual strings to be associated with the font.
// These strings can represent copyright notices, font names, family names,
// style names, and so on.
type NameTable struct {
	tableBase
	Version uint16
	records []NameRecord
}

func newNameTable(tag Tag, b binarySegm, offset, size uint32) *NameTable {
	t := &NameTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

func parseName(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if len(b) < nameHeaderSize {
		ec.errorf(tag, "Header", SeverityMajor, offset, "name table too short")
		return nil, errFontFormat("name table header")
	}
	t := newNameTable(tag, b, offset, size)
	t.Version = b.U16(0)
	count := int(b.U16(2))
	storage := int(b.U16(4))
	recs, err := b.view(nameHeaderSize, count*nameRecordSize)
	if err != nil {
		ec.errorf(tag, "NameRecords", SeverityMajor, offset, "%d name records exceed table size", count)
		return nil, errFontFormat("name records")
	}
	t.records = make([]NameRecord, 0, count)
	for i := 0; i < count; i++ {
		r := recs[i*nameRecordSize:]
		length, at := int(u16(r[8:])), int(u16(r[10:]))
		value, err := b.view(storage+at, length)
		if err != nil {
			ec.warnf(tag, offset, "name record %d: string outside of table", i)
			continue
		}
		t.records = append(t.records, NameRecord{
			PlatformID: u16(r),
			EncodingID: u16(r[2:]),
			LanguageID: u16(r[4:]),
			NameID:     u16(r[6:]),
			Value:      value,
		})
	}
	tracer().Debugf("name table has %d valid records of %d", len(t.records), count)
	return t, nil
}

// Records returns all name records whose strings lie within the table,
// in table order.
func (t *NameTable) Records() []NameRecord {
	if t == nil {
		return nil
	}
	return t.records
}

// RecordsFor returns all records for a name ID, in table order.
func (t *NameTable) RecordsFor(nameID uint16) []NameRecord {
	var recs []NameRecord
	for _, r := range t.Records() {
		if r.NameID == nameID {
			recs = append(recs, r)
		}
	}
	return recs
}
