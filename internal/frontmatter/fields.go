package frontmatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/inful/mdfp"
)

const (
	KeyTitle = "title"
	KeyUID   = "uid"
	// KeyFingerprint is the field mdfp reads and writes.
	KeyFingerprint = mdfp.FingerprintField
)

var errNilFields = errors.New("fields map is nil")

// uidNamespace scopes page uids so they never collide with uids minted by
// other tools from the same relative path.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("docwiki:page"))

// PageUID returns the stable uid of the page at relPath. The same output
// location always gets the same uid, so rerenders do not churn links.
func PageUID(relPath string) string {
	return uuid.NewSHA1(uidNamespace, []byte(relPath)).String()
}

// EnsureTitle sets title when it is missing or blank.
func EnsureTitle(fields map[string]any, title string) bool {
	if fields == nil {
		return false
	}
	if s, ok := fields[KeyTitle].(string); ok && strings.TrimSpace(s) != "" {
		return false
	}
	fields[KeyTitle] = title
	return true
}

// EnsureUID sets uid when the key is missing and returns the value in effect.
func EnsureUID(fields map[string]any, uid string) (string, bool, error) {
	if fields == nil {
		return "", false, errNilFields
	}
	if v, ok := fields[KeyUID]; ok && v != nil {
		return strings.TrimSpace(fmt.Sprint(v)), false, nil
	}
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return "", false, errors.New("uid is empty")
	}
	fields[KeyUID] = uid
	return uid, true, nil
}

// Fingerprint hashes the page content. The fingerprint and uid fields are
// excluded, so the hash depends only on the title and other authored fields
// plus the body.
func Fingerprint(fields map[string]any, body []byte) (string, error) {
	if fields == nil {
		return "", errNilFields
	}
	hashed := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == KeyFingerprint || k == KeyUID {
			continue
		}
		hashed[k] = v
	}
	raw, err := Serialize(hashed, "\n")
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(raw), "\n"), string(body)), nil
}

// UpdateFingerprint recomputes the fingerprint and stores it. It reports
// whether the stored value changed.
func UpdateFingerprint(fields map[string]any, body []byte) (string, bool, error) {
	fp, err := Fingerprint(fields, body)
	if err != nil {
		return "", false, err
	}
	if old, ok := fields[KeyFingerprint].(string); ok && old == fp {
		return fp, false, nil
	}
	fields[KeyFingerprint] = fp
	return fp, true, nil
}
