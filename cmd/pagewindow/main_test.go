package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/pagination"
)

func run(t *testing.T, args ...string) ([]string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n"), err
}

func TestPageWindow_Strip(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"middle page", []string{"--current", "6", "--total", "20"}, []string{"‹ 1 … 4 5 [6] 7 8 … 20 ›"}},
		{"first page", []string{"--current", "1", "--total", "20"}, []string{"[1] 2 3 4 5 … 20 ›"}},
		{"single page", []string{"--total", "1"}, []string{"[1]"}},
		{"current clamped to last", []string{"--current", "30", "--total", "3"}, []string{"‹ 1 2 [3]"}},
		{"narrow window", []string{"--current", "6", "--total", "20", "--window", "3"}, []string{"‹ 1 … 5 [6] 7 … 20 ›"}},
		{"navigation honoured", []string{"--current", "6", "--total", "20", "--go", "9"}, []string{
			"‹ 1 … 4 5 [6] 7 8 … 20 ›",
			"go 9: navigate to page 9",
		}},
		{"current page ignored", []string{"--current", "6", "--total", "20", "--go", "6"}, []string{
			"‹ 1 … 4 5 [6] 7 8 … 20 ›",
			"go 6: ignored",
		}},
		{"out of range ignored", []string{"--current", "2", "--total", "2", "--go", "0"}, []string{
			"‹ 1 [2]",
			"go 0: ignored",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.args...)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPageWindow_JSON(t *testing.T) {
	lines, err := run(t, "--current", "5", "--total", "9", "--json")
	require.NoError(t, err)

	var ctl pagination.Control
	require.NoError(t, json.Unmarshal([]byte(strings.Join(lines, "\n")), &ctl))

	want := pagination.Control{
		Current: 5,
		Total:   9,
		Markers: []pagination.Marker{
			pagination.PageMarker(1), pagination.Gap,
			pagination.PageMarker(3), pagination.PageMarker(4), pagination.PageMarker(5),
			pagination.PageMarker(6), pagination.PageMarker(7),
			pagination.Gap, pagination.PageMarker(9),
		},
		HasPrev: true,
		HasNext: true,
	}
	if diff := cmp.Diff(want, ctl); diff != "" {
		t.Errorf("control mismatch (-want +got):\n%s", diff)
	}
}

func TestPageWindow_InvalidFlags(t *testing.T) {
	_, err := run(t, "--total", "0")
	assert.ErrorContains(t, err, "--total")

	_, err = run(t, "--total", "5", "--window", "0")
	assert.ErrorContains(t, err, "--window")
}
