package mongo

import (
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/pinkbananas/users-api/internal/core/domain"
)

// userSchema binds the User record to its collection. The username is the
// document _id.
var userSchema = struct {
	Collection string
	Key        string
	Password   string
	Name       string
	Age        string
	Streak     string
}{
	Collection: "users",
	Key:        "_id",
	Password:   "password",
	Name:       "name",
	Age:        "age",
	Streak:     "streak",
}

func userFilter(username string) bson.D {
	return bson.D{{Key: userSchema.Key, Value: username}}
}

func encodeUser(u domain.User) bson.D {
	return bson.D{
		{Key: userSchema.Key, Value: u.Key()},
		{Key: userSchema.Password, Value: u.Password},
		{Key: userSchema.Name, Value: u.Name},
		{Key: userSchema.Age, Value: u.Age},
		{Key: userSchema.Streak, Value: u.Streak},
	}
}

// decodeUser reads a stored document. Missing fields decode to their zero
// value and fields outside the schema are ignored.
func decodeUser(raw bson.Raw) (domain.User, error) {
	elems, err := raw.Elements()
	if err != nil {
		return domain.User{}, fmt.Errorf("decode user: %w", err)
	}

	var u domain.User
	for _, el := range elems {
		key, rv := el.Key(), el.Value()
		switch key {
		case userSchema.Key:
			u.Username, err = stringValue(key, rv)
		case userSchema.Password:
			u.Password, err = stringValue(key, rv)
		case userSchema.Name:
			u.Name, err = stringValue(key, rv)
		case userSchema.Age:
			u.Age, err = intValue(key, rv)
		case userSchema.Streak:
			u.Streak, err = intValue(key, rv)
		}
		if err != nil {
			return domain.User{}, err
		}
	}
	return u, nil
}

func stringValue(key string, rv bson.RawValue) (string, error) {
	if rv.Type == bson.TypeNull {
		return "", nil
	}
	s, ok := rv.StringValueOK()
	if !ok {
		return "", fmt.Errorf("decode user %s: unexpected type %s", key, rv.Type)
	}
	return s, nil
}

// intValue accepts every numeric width other clients may have written, as
// long as the value fits in 32 bits.
func intValue(key string, rv bson.RawValue) (int32, error) {
	var n float64
	switch rv.Type {
	case bson.TypeInt32:
		return rv.Int32(), nil
	case bson.TypeInt64:
		v := rv.Int64()
		if v < math.MinInt32 || v > math.MaxInt32 {
			return 0, fmt.Errorf("decode user %s: %d out of range", key, v)
		}
		return int32(v), nil
	case bson.TypeDouble:
		n = rv.Double()
	case bson.TypeNull:
		return 0, nil
	default:
		return 0, fmt.Errorf("decode user %s: unexpected type %s", key, rv.Type)
	}
	if math.IsNaN(n) || n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("decode user %s: %v out of range", key, n)
	}
	return int32(n), nil
}
