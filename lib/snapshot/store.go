package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"usydrc/internal/assert"
	"usydrc/internal/telemetry"
	"usydrc/lib/results"

	"github.com/gofrs/flock"
)

// DefaultPath is where the snapshot lives unless configured otherwise.
const DefaultPath = "results.txt"

// ErrBusy is returned by Lock when another run owns the snapshot.
var ErrBusy = errors.New("snapshot is in use by another run")

const (
	report_load       = "store.load"
	report_save       = "store.save"
	report_bad_record = "store.bad-record"
)

type Store struct {
	path string
	lock *flock.Flock
	tel  telemetry.API
}

func NewStore(path string, tel telemetry.API) Store {
	assert.NotNil(tel)
	if path == "" {
		path = DefaultPath
	}
	return Store{
		path: path,
		lock: flock.New(path + ".lock"),
		tel:  telemetry.NewScopedAPI("snapshot", tel),
	}
}

func (s Store) Path() string {
	return s.path
}

// Lock takes exclusive ownership of the snapshot for the duration of a run.
func (s Store) Lock() (unlock func(), err error) {
	ok, err := s.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", s.lock.Path(), err)
	}
	if !ok {
		return nil, ErrBusy
	}
	return func() {
		err := s.lock.Unlock()
		if err != nil {
			s.tel.ReportWarning(report_save, fmt.Errorf("unlock: %w", err))
		}
	}, nil
}

// Load reads the stored records. A missing file is the same as a file
// saying marks aren't out yet: no records and no error.
func (s Store) Load(ctx context.Context) ([]results.Record, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		s.tel.ReportDebug("no snapshot yet", s.path)
		return []results.Record{}, nil
	}
	if err != nil {
		s.tel.ReportBroken(report_load, err, s.path)
		return nil, err
	}
	defer f.Close()

	records, skipped, err := Decode(f)
	if err != nil {
		s.tel.ReportBroken(report_load, err, s.path)
		return nil, err
	}
	for _, lineErr := range skipped {
		s.tel.ReportWarning(report_bad_record, lineErr, s.path)
	}
	s.tel.ReportCount("stored-records", int64(len(records)))
	return records, nil
}

// Contents returns the raw text of the snapshot.
func (s Store) Contents(ctx context.Context) (string, error) {
	contents, err := os.ReadFile(s.path)
	if err != nil {
		return "", err
	}
	return string(contents), nil
}

// Save replaces the snapshot with the given records. The file is written
// next to the target and renamed over it, readers never see half a file.
func (s Store) Save(ctx context.Context, records []results.Record, hadNew bool, checkedAt time.Time) error {
	buf := bytes.Buffer{}
	err := Encode(&buf, records, hadNew, checkedAt)
	if err != nil {
		return err
	}

	err = writeAtomic(s.path, buf.Bytes())
	if err != nil {
		s.tel.ReportBroken(report_save, err, s.path)
		return err
	}
	return nil
}

func writeAtomic(path string, contents []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	_, err = tmp.Write(contents)
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Sync()
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	err = os.Chmod(tmpName, 0644)
	if err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
