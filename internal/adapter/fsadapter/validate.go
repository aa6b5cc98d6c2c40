package fsadapter

import (
	"regexp"
	"strings"

	"github.com/jgivc/toolmanifest/internal/common"
	"github.com/jgivc/toolmanifest/internal/entity"
)

var (
	requiredFields = []string{"id", "name", "category", "description", "author", "version", "tags", "files", "installation"}
	versionRegexp  = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
)

/*
Validate checks a decoded descriptor before it is turned into an entity.
Checks run in a fixed order and the first failure is returned:
 1. required top-level fields are present (null counts as present);
 2. category is a known category;
 3. tags is an array;
 4. files.main is a non-empty string;
 5. version is a plain MAJOR.MINOR.PATCH triple.
*/
func Validate(raw any) error {
	obj, ok := raw.(map[string]any)
	if !ok {
		return &common.ValidationError{Field: "(root)", Reason: "descriptor must be a JSON object"}
	}

	for _, field := range requiredFields {
		if _, exists := obj[field]; !exists {
			return &common.ValidationError{Field: field, Reason: "missing required field"}
		}
	}

	category, _ := obj["category"].(string)
	if !entity.Category(category).Valid() {
		return &common.ValidationError{
			Field:  "category",
			Value:  obj["category"],
			Reason: "invalid category, expected one of " + knownCategories(),
		}
	}

	if _, ok := obj["tags"].([]any); !ok {
		return &common.ValidationError{Field: "tags", Value: obj["tags"], Reason: "must be an array"}
	}

	files, _ := obj["files"].(map[string]any)
	if main, _ := files["main"].(string); main == "" {
		return &common.ValidationError{Field: "files.main", Reason: "missing or empty"}
	}

	version, ok := obj["version"].(string)
	if !ok || !versionRegexp.MatchString(version) {
		return &common.ValidationError{
			Field:  "version",
			Value:  obj["version"],
			Reason: "invalid version format, use semver (X.Y.Z)",
		}
	}

	return nil
}

func knownCategories() string {
	names := make([]string, 0, len(entity.Categories))
	for _, c := range entity.Categories {
		names = append(names, c.String())
	}

	return strings.Join(names, ", ")
}
