package pebblestore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// convertCellTypes maps bson decode products back to plain Go values so
// cells round-trip through the keyspace without leaking driver types.
func convertCellTypes(row []any) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = convertCellValue(v)
	}
	return out
}

func convertCellValue(value any) any {
	switch v := value.(type) {
	case primitive.DateTime:
		return time.Unix(int64(v)/1000, (int64(v)%1000)*1000000).UTC()
	case primitive.ObjectID:
		return v.Hex()
	case primitive.Binary:
		return v.Data
	case bson.M:
		result := make(map[string]any, len(v))
		for k, val := range v {
			result[k] = convertCellValue(val)
		}
		return result
	case primitive.A:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = convertCellValue(val)
		}
		return result
	default:
		return value
	}
}
