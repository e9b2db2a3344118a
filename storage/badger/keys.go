package badger

// Key prefixes for different data types
const (
	companyRecordPrefix = "comprec"
)

// makeCompanyKey generates a key for a company entry by ID.
// Entry IDs are strings, so lexicographic key order is ID order.
func makeCompanyKey(id string) []byte {
	return []byte(companyRecordPrefix + ":" + id)
}
