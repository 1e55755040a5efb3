package model_test

import (
	"path/filepath"
	"testing"

	"github.com/singampalli/ideaminds/pkg/model"
	"github.com/singampalli/ideaminds/pkg/testsupport"
)

func TestBuilderGolden(t *testing.T) {
	tpl := testsupport.MustLoadTemplate(t, filepath.Join("testdata", "post.yaml"))
	golden := filepath.Join("testdata", "post.form.json")

	got := model.NewBuilder().Build(tpl)
	testsupport.WriteFormModel(t, golden, got)

	want := testsupport.MustLoadFormModel(t, golden)
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("form model mismatch (-want +got):\n%s", diff)
	}
}
