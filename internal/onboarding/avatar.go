package onboarding

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

const avatarBaseURL = "https://www.gravatar.com/avatar/"

// AvatarFor maps an email to a stable identicon URL; the same email always yields the same avatar
func AvatarFor(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return avatarBaseURL + hex.EncodeToString(sum[:]) + "?d=identicon"
}
