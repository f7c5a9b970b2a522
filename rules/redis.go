package rules

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	goshape "github.com/reoring/goshape"
)

// SetChecker is the subset of a Redis client used by the set tests.
type SetChecker interface {
	SIsMember(ctx context.Context, key string, member any) *redis.BoolCmd
}

// InSet returns an asynchronous test requiring the value to be a member of
// the Redis set key. Absent values pass.
func InSet(client SetChecker, key string, msg ...string) *goshape.Test {
	return setTest(client, key, "inSet", true, message(msg, "${path} is not a known value"))
}

// NotInSet returns an asynchronous test requiring the value to be absent
// from the Redis set key, as used for uniqueness checks such as taken user
// names.
func NotInSet(client SetChecker, key string, msg ...string) *goshape.Test {
	return setTest(client, key, "notInSet", false, message(msg, "${path} is already taken"))
}

func setTest(client SetChecker, key, name string, want bool, msg string) *goshape.Test {
	return &goshape.Test{
		Name:    name,
		Message: msg,
		Params:  goshape.Params{"set": key},
		Async:   true,
		Fn: func(tc *goshape.TestContext, value any) (bool, error) {
			if goshape.IsAbsent(value) {
				return true, nil
			}
			member, err := client.SIsMember(tc.Context(), key, fmt.Sprint(value)).Result()
			if err != nil {
				return false, fmt.Errorf("rules: redis SISMEMBER %s: %w", key, err)
			}
			return member == want, nil
		},
	}
}
