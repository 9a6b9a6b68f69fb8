//go:generate go run go.uber.org/mock/mockgen -source=transcript.go -destination=../mocks/mock_transcript_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"collab-lab/domain"
)

type ITranscriptRepository interface {
	Store(entry TranscriptEntry) error
	Entries(sessionID domain.SessionID, cursor *string) ([]TranscriptEntry, *string, error)
}

// TranscriptEntry is the archived form of a broadcast message. Values are
// CBOR-encoded: self-describing, compact, no generated code to maintain.
type TranscriptEntry struct {
	ID               uuid.UUID `cbor:"1,keyasint"`
	Session          string    `cbor:"2,keyasint"`
	From             string    `cbor:"3,keyasint"`
	Type             string    `cbor:"4,keyasint"`
	Content          string    `cbor:"5,keyasint"`
	ReferencedAgents []string  `cbor:"6,keyasint,omitempty"`
	At               time.Time `cbor:"7,keyasint"`
}

type TranscriptRepository struct {
	db           *badger.DB
	log          *slog.Logger
	limitEntries *int
}

func NewTranscriptRepository(db *badger.DB, log *slog.Logger, limitEntries *int) TranscriptRepository {
	return TranscriptRepository{db: db, log: log, limitEntries: limitEntries}
}

// Store persists one transcript entry.
// The key is formatted as "msg:{session_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two messages
//     arrive at the same nanosecond.
func (r TranscriptRepository) Store(entry TranscriptEntry) error {
	key := fmt.Sprintf("msg:%s:%019d:%s",
		entry.Session,
		entry.At.UnixNano(),
		entry.ID,
	)
	bytes, err := cbor.Marshal(entry)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// Entries retrieves a session's transcript newest-first using a prefix scan.
// Thanks to the padded timestamp in the key, entries are naturally sorted
// by time; the returned cursor resumes the scan on the next page. Collection
// stops once the configured limit is reached.
func (r TranscriptRepository) Entries(sessionID domain.SessionID, cursor *string) ([]TranscriptEntry, *string, error) {
	var rawValues [][]byte
	var lastKey string
	err := r.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:", sessionID)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible timestamp, then walk backwards.
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if r.limitEntries != nil && len(rawValues) == *r.limitEntries {
				r.log.Debug(fmt.Sprintf("Maximum of %d transcript entries reached", *r.limitEntries))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(value []byte) error {
				rawValues = append(rawValues, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	entries := make([]TranscriptEntry, 0, len(rawValues))
	for _, b := range rawValues {
		var entry TranscriptEntry
		if err = cbor.Unmarshal(b, &entry); err != nil {
			return nil, nil, err
		}
		entries = append(entries, entry)
	}
	return entries, &lastKey, nil
}
