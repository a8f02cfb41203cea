package models

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
)

// DeriveDNASeed builds the immutable per-generation seed from the owner
// identity, creation instant and generation number. The pet keeps this
// hex string for life; all individual traits derive from it.
func DeriveDNASeed(ownerID string, birth time.Time, generation int) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s:%s:%d", ownerID, birth.Format(time.RFC3339Nano), generation)))
	return hex.EncodeToString(sum[:])
}
