package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile writes content to dir/name and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Dataset is a small, hand-checkable set of gift input files.
//
// Two drugs (D1, D2), three proteins (P1..P3), two substructures (S1, S2) and
// two domains (M1, M2).  S1 is carried by both drugs, S2 by none.  All three
// proteins carry M1, none carries M2.  Observed interactions are
// (D1,P1) (D1,P2) (D2,P1) (D2,P3), so cell (S1,M1) has I=4, N=6.
type Dataset struct {
	Dir          string
	Drug2Protein string
	Drug2Sub     string
	Protein2Sub  string
	DrugNames    string
	ProteinNames string
	SubNames     string
	DomainNames  string
}

// WriteDataset writes the Dataset files into a fresh temporary directory.
func WriteDataset(t testing.TB) *Dataset {
	t.Helper()
	dir := t.TempDir()
	return &Dataset{
		Dir:          dir,
		Drug2Protein: WriteFile(t, dir, "drug2protein.tsv", "1\t1\t0\n1,0,1\n"),
		Drug2Sub:     WriteFile(t, dir, "drug2sub.tsv", "1\t0\n1\t0\n"),
		Protein2Sub:  WriteFile(t, dir, "protein2sub.tsv", "1,0\n1,0\n1,0\n"),
		DrugNames:    WriteFile(t, dir, "drugs.txt", "D1\nD2\n"),
		ProteinNames: WriteFile(t, dir, "proteins.txt", "P1\nP2\nP3\n"),
		SubNames:     WriteFile(t, dir, "subs.txt", "S1\nS2\n"),
		DomainNames:  WriteFile(t, dir, "domains.txt", "M1\nM2\n"),
	}
}

// ConfigLines returns key=value lines pointing at the dataset files.
func (d *Dataset) ConfigLines() []string {
	return []string{
		"drug2proteinFileName=" + d.Drug2Protein,
		"drug2subFileName=" + d.Drug2Sub,
		"protein2subFileName=" + d.Protein2Sub,
		"drugNameListFile=" + d.DrugNames,
		"proteinNameListFile=" + d.ProteinNames,
		"drugSubNameListFile=" + d.SubNames,
		"proteinSubNameListFile=" + d.DomainNames,
	}
}

// WriteConfig writes a configuration file containing the dataset paths
// followed by extra lines, and returns its path.
func (d *Dataset) WriteConfig(t testing.TB, extra ...string) string {
	t.Helper()
	lines := append(d.ConfigLines(), extra...)
	return WriteFile(t, d.Dir, "gift.conf", strings.Join(lines, "\n")+"\n")
}
