package record

import "github.com/fieldex/fieldex/internal/types"

// Success creates a success result
func Success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

// Failure creates a failure result
func Failure(message string) (*types.Result, error) {
	return &types.Result{Success: false, Error: &message}, nil
}

func getString(params map[string]interface{}, key string) (string, bool) {
	v, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func optString(params map[string]interface{}, key string) string {
	s, _ := getString(params, key)
	return s
}
