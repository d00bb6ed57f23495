package main

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"romfind/internal/dataset"
)

func TestCollectNamesMergesArgsAndStdin(t *testing.T) {
	stdin := strings.NewReader("Galaga\n\n  \nMs. Pac-Man\n")
	names, err := collectNames([]string{"Pac-Man", " "}, "-", stdin)
	if err != nil {
		t.Fatalf("collectNames: %v", err)
	}
	want := []string{"Pac-Man", "Galaga", "Ms. Pac-Man"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("collectNames = %v, want %v", names, want)
	}
}

func TestCollectNamesWithoutFile(t *testing.T) {
	names, err := collectNames([]string{"Galaga"}, "", nil)
	if err != nil {
		t.Fatalf("collectNames: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Galaga"}) {
		t.Fatalf("collectNames = %v", names)
	}
}

func TestWriteCSVShapesByCloneFlag(t *testing.T) {
	games := []dataset.Game{
		{ROM: "pacman", Name: "Pac-Man"},
		{ROM: "pacmanf", Name: "Pac-Man (Fast)", CloneOf: "Pac-Man"},
	}

	var buf bytes.Buffer
	if err := writeCSV(&buf, games, true); err != nil {
		t.Fatalf("writeCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "rom,name,clone_of" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[2] != "pacmanf,Pac-Man (Fast),Pac-Man" {
		t.Fatalf("unexpected clone row %q", lines[2])
	}

	buf.Reset()
	if err := writeCSV(&buf, games[:1], false); err != nil {
		t.Fatalf("writeCSV: %v", err)
	}
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "rom,name" {
		t.Fatalf("clone column must be omitted, got header %q", lines[0])
	}
}
