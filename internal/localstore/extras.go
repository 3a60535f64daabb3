package localstore

import (
	"fmt"

	sonic "github.com/bytedance/sonic"
	"go.etcd.io/bbolt"
)

const (
	notesBucket  = "rucktrack-match-notes"
	photosBucket = "rucktrack-match-photos"
)

// Photo is one attachment captured against a match.
type Photo struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

// MatchExtras stores the per-match blobs that sit outside the main
// collection: free-text notes and photo attachments, keyed by match ID.
type MatchExtras struct {
	db *bbolt.DB
}

func NewMatchExtras(db *bbolt.DB) (*MatchExtras, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}

	err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{notesBucket, photosBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &MatchExtras{db: db}, nil
}

func (e *MatchExtras) SaveNotes(matchID, notes string) error {
	if matchID == "" {
		return fmt.Errorf("match id is required")
	}
	return e.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(notesBucket)).Put([]byte(matchID), []byte(notes))
	})
}

func (e *MatchExtras) Notes(matchID string) (string, error) {
	var notes string
	err := e.db.View(func(tx *bbolt.Tx) error {
		if blob := tx.Bucket([]byte(notesBucket)).Get([]byte(matchID)); blob != nil {
			notes = string(blob)
		}
		return nil
	})
	return notes, err
}

func (e *MatchExtras) AddPhoto(matchID string, photo Photo) error {
	if matchID == "" {
		return fmt.Errorf("match id is required")
	}
	return e.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(photosBucket))

		var photos []Photo
		if blob := bucket.Get([]byte(matchID)); blob != nil {
			if err := sonic.Unmarshal(blob, &photos); err != nil {
				return fmt.Errorf("decode photos for match %s: %w", matchID, err)
			}
		}
		photos = append(photos, photo)

		blob, err := sonic.Marshal(photos)
		if err != nil {
			return fmt.Errorf("encode photos for match %s: %w", matchID, err)
		}
		return bucket.Put([]byte(matchID), blob)
	})
}

func (e *MatchExtras) Photos(matchID string) ([]Photo, error) {
	var photos []Photo
	err := e.db.View(func(tx *bbolt.Tx) error {
		blob := tx.Bucket([]byte(photosBucket)).Get([]byte(matchID))
		if blob == nil {
			return nil
		}
		return sonic.Unmarshal(blob, &photos)
	})
	if err != nil {
		return nil, fmt.Errorf("read photos for match %s: %w", matchID, err)
	}
	return photos, nil
}

// DeleteFor removes all extra blobs for a match, called when the match
// itself is deleted.
func (e *MatchExtras) DeleteFor(matchID string) error {
	return e.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket([]byte(notesBucket)).Delete([]byte(matchID)); err != nil {
			return err
		}
		return tx.Bucket([]byte(photosBucket)).Delete([]byte(matchID))
	})
}
