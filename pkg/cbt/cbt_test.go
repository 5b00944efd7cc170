package cbt

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

const dictJSON = `{
  "H1": {
    "compound": {"<<COMPOUND>>/<<COMPOUND>>/C1": {"start": "2024-01-01T10:00:00Z", "end": "2024-01-01T10:00:02Z"}},
    "init": {"<<INIT>>/<<INIT>>/I1": {"start": "2024-01-01T10:00:00Z", "end": "2024-01-01T10:00:00.5Z"}},
    "simple": {
      "U/F/T1": {"start": "2024-01-01T10:00:00Z", "end": "2024-01-01T10:00:01.25Z"},
      "SYS1": {"start": "2024-01-01T10:00:00Z", "end": "2024-01-01T10:00:03Z"}
    }
  },
  "EMPTY": {},
  "BROKEN": null
}`

func readDict(t *testing.T) Dictionary {
	t.Helper()
	d, err := Read(strings.NewReader(dictJSON))
	require.NoError(t, err)
	return d
}

func TestResolve_SimpleLookup(t *testing.T) {
	r := NewResolver(readDict(t), "H1")

	got := r.Resolve(Query{Name: "T1", Qualified: "U/F/T1"})
	assert.False(t, got.Skipped)
	assert.Equal(t, "1.25", got.Elapsed())

	got = r.Resolve(Query{Name: "T2", Qualified: "U/F/T2"})
	assert.True(t, got.Skipped)
	assert.Equal(t, "0.0", got.Elapsed())
}

func TestResolve_Preconditions(t *testing.T) {
	d := readDict(t)

	tests := []struct {
		name     string
		resolver *Resolver
		query    Query
		skipped  bool
	}{
		{"unmonitored system test", NewResolver(d, "H1"), Query{Name: "X", Kind: KindSystem}, false},
		{"nil dictionary", NewResolver(nil, "H1"), Query{Qualified: "U/F/X"}, false},
		{"disabled", NewResolver(d, "H1", Disabled(true)), Query{Qualified: "U/F/X"}, false},
		{"empty dictionary", NewResolver(Dictionary{}, "H1"), Query{Qualified: "U/F/T1"}, true},
		{"empty tables", NewResolver(d, "EMPTY"), Query{Qualified: "U/F/T1"}, true},
		{"strict import failure first", NewResolver(d, "NOPE"), Query{Qualified: "U/F/X", Status: StatusStrictImportFailed}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.resolver.Resolve(tt.query)
			assert.Equal(t, tt.skipped, got.Skipped)
		})
	}
}

func TestResolve_MissingAndMalformedIdentity(t *testing.T) {
	d := readDict(t)

	got := NewResolver(d, "NOPE").Resolve(Query{Qualified: "U/F/T1"})
	assert.True(t, got.Skipped)
	assert.True(t, errors.Is(got.Reason, ErrMissingIdentity))

	got = NewResolver(d, "BROKEN").Resolve(Query{Qualified: "U/F/T1"})
	assert.True(t, got.Skipped)
	assert.True(t, errors.Is(got.Reason, ErrMalformedEntry))
}

func TestResolve_Kinds(t *testing.T) {
	r := NewResolver(readDict(t), "H1")

	tests := []struct {
		name    string
		query   Query
		skipped bool
		elapsed string
	}{
		{"compound present", Query{Qualified: "<<COMPOUND>>/<<COMPOUND>>/C1", Kind: KindCompound}, false, "2.0"},
		{"compound absent", Query{Qualified: "<<COMPOUND>>/<<COMPOUND>>/C2", Kind: KindCompound}, true, "0.0"},
		{"recursive compound absent", Query{Qualified: "<<COMPOUND>>/<<COMPOUND>>/C2", Kind: KindCompound, Status: StatusRecursiveCompound}, false, "0.0"},
		{"init present", Query{Qualified: "<<INIT>>/<<INIT>>/I1", Kind: KindInit}, false, "0.5"},
		{"init absent", Query{Qualified: "<<INIT>>/<<INIT>>/I2", Kind: KindInit}, true, "0.0"},
		{"no expected values absent", Query{Qualified: "U/F/NEV", Status: StatusNoExpectedValues}, false, "0.0"},
		{"monitored system present", Query{Name: "SYS1", Kind: KindSystem, Monitored: true}, false, "3.0"},
		{"monitored system absent", Query{Name: "SYS2", Kind: KindSystem, Monitored: true}, true, "0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.query)
			assert.Equal(t, tt.skipped, got.Skipped)
			assert.Equal(t, tt.elapsed, got.Elapsed())
		})
	}
}

func TestResolve_Pure(t *testing.T) {
	d := readDict(t)
	r := NewResolver(d, "H1")
	q := Query{Qualified: "U/F/T1"}
	first := r.Resolve(q)
	for i := 0; i < 3; i++ {
		if diff := cmp.Diff(first, r.Resolve(q)); diff != "" {
			t.Fatalf("resolution changed on repeat (-first +got):\n%s", diff)
		}
	}
	assert.Len(t, d["H1"].Simple, 2)
}

func TestBuildHash(t *testing.T) {
	want := md5.Sum([]byte("WORK/ENV1"))
	got, err := BuildHash("/home/ci/work/env1", nil)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(want[:]), got)

	win, err := BuildHash(`C:\ci\work\env1`, nil)
	require.NoError(t, err)
	assert.Equal(t, got, win)

	short, err := BuildHash("env1", nil)
	require.NoError(t, err)
	wantShort := md5.Sum([]byte("ENV1"))
	assert.Equal(t, hex.EncodeToString(wantShort[:]), short)
}

func TestBuildHash_Encoding(t *testing.T) {
	sjis, err := BuildHash("/ci/テスト/env", japanese.ShiftJIS)
	require.NoError(t, err)
	utf8, err := BuildHash("/ci/テスト/env", nil)
	require.NoError(t, err)
	assert.NotEqual(t, sjis, utf8)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cbt.json")
	require.NoError(t, os.WriteFile(path, []byte(dictJSON), 0o600))

	d, err := ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, d, "H1")
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 3, 0, time.UTC), d["H1"].Simple["SYS1"].End)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "2.0", formatSeconds(2))
	assert.Equal(t, "0.125", formatSeconds(0.125))
	assert.Equal(t, "0.0", formatSeconds(0))
}
