package redis

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

const (
	KeyPrefixBookmark = "linkroll:bookmark:"
	KeyPrefixCategory = "linkroll:category:"
	KeyPrefixRender   = "linkroll:render:"

	KeyAllBookmarks  = "linkroll:bookmarks:all"
	KeyAllCategories = "linkroll:categories:all"
	KeyRenderStats   = "linkroll:stats:render"
)

func BookmarkKey(id int64) string {
	return KeyPrefixBookmark + strconv.FormatInt(id, 10)
}

func CategoryKey(id int64) string {
	return KeyPrefixCategory + strconv.FormatInt(id, 10)
}

// RenderKey hashes the canonical option encoding of a listing so that
// arbitrary caller input never ends up in a key name.
func RenderKey(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return KeyPrefixRender + hex.EncodeToString(sum[:])
}

// ExtractBookmarkID parses the ID out of a bookmark key.
func ExtractBookmarkID(key string) (int64, error) {
	raw, ok := strings.CutPrefix(key, KeyPrefixBookmark)
	if !ok || raw == "" {
		return 0, fmt.Errorf("invalid bookmark key: %s", key)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid bookmark key %s: %w", key, err)
	}
	return id, nil
}
