package display

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/nujievik/mux-media-sub000/internal/input"
	"github.com/nujievik/mux-media-sub000/internal/langcode"
	"github.com/nujievik/mux-media-sub000/internal/target"
)

// PrintLangs prints every recognized ISO 639-2/B language code and its
// 2-letter form (§6 "--list-langs"), grounded on the teacher's go-pretty
// table usage for its --list-codecs info exit.
func PrintLangs() {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Alpha-2", "Alpha-3"})
	for _, l := range langcode.All() {
		t.AppendRow(table.Row{l.Alpha2, l.Alpha3})
	}
	t.Render()
}

// PrintContainers prints every container extension this core groups as a
// media file (§6 "--list-containers").
func PrintContainers() {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Extension"})
	for _, ext := range input.MediaExtensions() {
		t.AppendRow(table.Row{ext})
	}
	t.Render()
}

// PrintTargetGroups prints every named --target group keyword (§6
// "--list-targets").
func PrintTargetGroups() {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Group"})
	groups := []target.Group{
		target.GroupAudio, target.GroupSub, target.GroupVideo,
		target.GroupButton, target.GroupFont, target.GroupOther,
	}
	for _, g := range groups {
		t.AppendRow(table.Row{g.String()})
	}
	t.Render()
}
