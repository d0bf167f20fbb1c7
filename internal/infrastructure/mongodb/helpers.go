package mongodb

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/travel-advisor/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// notFound translates the driver's no-documents error into domain.ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return err
}

// exactFold builds a case-insensitive whole-string match for s. Regex
// metacharacters in s are matched literally.
func exactFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(strings.TrimSpace(s)) + "$", Options: "i"}
}

func byID(id string) bson.M { return bson.M{"_id": id} }
