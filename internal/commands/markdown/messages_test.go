package markdowncmd

import "testing"

func TestImportVocabularyCommandValidateRequiresPath(t *testing.T) {
	cmd := ImportVocabularyCommand{}
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected error when path missing")
	}

	cmd.Path = "   "
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected error when path is blank")
	}

	cmd.Path = "vocabulary.yaml"
	if err := cmd.Validate(); err != nil {
		t.Fatalf("unexpected error when path provided: %v", err)
	}
}

func TestImportArticlesCommandValidateRequiresDirectory(t *testing.T) {
	cmd := ImportArticlesCommand{}
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected error when directory missing")
	}

	cmd.Directory = "articles"
	if err := cmd.Validate(); err != nil {
		t.Fatalf("unexpected error when directory provided: %v", err)
	}
}
