package postgres

import (
	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/darts-league/internal/domain/fixture"
)

// sheetDocument is the JSONB layout of a score sheet.
type sheetDocument struct {
	Version int `json:"v"`
	fixture.Sheet
}

const sheetDocumentVersion = 1

func encodeSheet(s fixture.Sheet) ([]byte, error) {
	if s.Matches == nil {
		s.Matches = []*fixture.Match{}
	}
	raw, err := sonic.Marshal(sheetDocument{Version: sheetDocumentVersion, Sheet: s})
	if err != nil {
		return nil, crerr.Wrap(err, "encode sheet")
	}
	return raw, nil
}

func decodeSheet(raw []byte) (fixture.Sheet, error) {
	if len(raw) == 0 {
		return fixture.Sheet{}, nil
	}

	var doc sheetDocument
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return fixture.Sheet{}, crerr.Wrap(err, "decode sheet")
	}
	if doc.Version > sheetDocumentVersion {
		return fixture.Sheet{}, crerr.Newf("decode sheet: unsupported document version %d", doc.Version)
	}
	return doc.Sheet, nil
}
