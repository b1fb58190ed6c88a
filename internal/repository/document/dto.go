package document

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/prabhjot018/meilisearch/internal/domain"
	"github.com/prabhjot018/meilisearch/internal/domain/fields"
	"github.com/prabhjot018/meilisearch/internal/usecase/search"
)

// encodeRecord serializes a record as a JSON object keyed by the decimal
// field id, each value carried verbatim.
func encodeRecord(record search.Record) ([]byte, error) {
	dto := make(map[string]json.RawMessage, len(record))
	for fid, raw := range record {
		dto[strconv.FormatUint(uint64(fid), 10)] = raw
	}
	return json.Marshal(dto)
}

// decodeRecord parses the stored form back into a record.
func decodeRecord(data []byte) (search.Record, error) {
	var dto map[string]json.RawMessage
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDocumentDecode, err)
	}
	record := make(search.Record, len(dto))
	for key, raw := range dto {
		fid, err := strconv.ParseUint(key, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: field id %q", domain.ErrDocumentDecode, key)
		}
		record[fields.ID(fid)] = raw
	}
	return record, nil
}
