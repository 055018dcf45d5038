package codec

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/roach88/treegen/internal/tree"
)

// DomainTree prefixes tree fingerprints.
// Version suffix enables future algorithm migration.
const DomainTree = "treegen/tree/v1"

// Fingerprint returns a content hash of a node list: SHA-256 over the
// domain, a 0x00 separator and the compact JSON encoding, hex encoded.
// Two lists have the same fingerprint exactly when they encode to the same
// JSON, regardless of the file encoding they were read from.
func Fingerprint(nodes []tree.Node) (string, error) {
	data, err := json.Marshal(nodes)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(DomainTree))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
