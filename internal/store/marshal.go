package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/matverify/internal/faults"
	"github.com/roach88/matverify/internal/matrix"
)

func marshalJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func marshalTriggers(codes []faults.Code) (string, error) {
	if codes == nil {
		codes = []faults.Code{}
	}
	s, err := marshalJSON(codes)
	if err != nil {
		return "", fmt.Errorf("marshal triggers: %w", err)
	}
	return s, nil
}

func marshalObserved(m matrix.Matrix) (sql.NullString, error) {
	if m == nil {
		return sql.NullString{}, nil
	}
	s, err := marshalJSON(m)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal observed: %w", err)
	}
	return sql.NullString{String: s, Valid: true}, nil
}

func unmarshalObserved(ns sql.NullString) (matrix.Matrix, error) {
	if !ns.Valid {
		return nil, nil
	}
	var m matrix.Matrix
	if err := json.Unmarshal([]byte(ns.String), &m); err != nil {
		return nil, fmt.Errorf("unmarshal observed: %w", err)
	}
	return m, nil
}

func nullSeed(seed *uint32) sql.NullInt64 {
	if seed == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*seed), Valid: true}
}

func nullTrial(trial *int) sql.NullInt64 {
	if trial == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*trial), Valid: true}
}
