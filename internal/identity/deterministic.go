package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "glossary-magic"

// UUID derives a deterministic UUID from key with go-hashid, falling back to
// a SHA1 name UUID when hashing fails. Keys must be prefixed by entity kind.
func UUID(key string) uuid.UUID {
	key = strings.TrimSpace(key)
	if key == "" {
		return uuid.Nil
	}
	id, err := hashid.NewUUID(key, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err == nil && id != uuid.Nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
}

func entityUUID(kind string, parts ...string) uuid.UUID {
	return UUID(namespace + ":" + kind + ":" + strings.Join(parts, ":"))
}

func normalized(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func CategoryUUID(slug string) uuid.UUID {
	return entityUUID("category", normalized(slug))
}

func ArticleUUID(slug string) uuid.UUID {
	return entityUUID("article", normalized(slug))
}

// TermUUID keys on the lowercased word, so "Node" and "node" share an ID.
func TermUUID(word string) uuid.UUID {
	return entityUUID("term", normalized(word))
}

func TermCategoryUUID(termID, categoryID uuid.UUID) uuid.UUID {
	return entityUUID("term_category", termID.String(), categoryID.String())
}

func ArticleTermUUID(articleID, termID uuid.UUID) uuid.UUID {
	return entityUUID("article_term", articleID.String(), termID.String())
}
