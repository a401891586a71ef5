package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/FocuswithJustin/juniper-corpus/core/engine"
	"github.com/FocuswithJustin/juniper-corpus/core/ir"
)

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
}

func printVerses(g *Globals, verses []ir.Verse) error {
	if g.JSON {
		return printJSON(verses)
	}
	if len(verses) == 0 {
		fmt.Fprintln(stdout, "no verses")
		return nil
	}
	for _, v := range verses {
		fmt.Fprintf(stdout, "%s %d:%d  %s\n", v.BookName, v.Chapter, v.Verse, v.Text)
	}
	return nil
}

func printDiagnostics(g *Globals, d engine.Diagnostics) error {
	if g.JSON {
		return printJSON(d)
	}
	tw := newTable()
	fmt.Fprintf(tw, "State:\t%s\n", d.State)
	fmt.Fprintf(tw, "Format:\t%s\n", d.FormatVersion)
	fmt.Fprintf(tw, "Build:\t%s\n", d.BuildID)
	fmt.Fprintf(tw, "Built at:\t%s\n", d.BuiltAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(tw, "From cache:\t%v\n", d.FromCache)
	fmt.Fprintf(tw, "Verses:\t%d\n", d.TotalVerses)
	fmt.Fprintf(tw, "Genuine:\t%d\n", d.RealVerses)
	fmt.Fprintf(tw, "Placeholders:\t%d\n", d.Placeholders)
	fmt.Fprintf(tw, "Quality:\t%.2f%%\n", d.QualityPercentage)
	for _, s := range d.Sources {
		fmt.Fprintf(tw, "Source:\t%s (%s, %s, %d verses)\n", s.VersionID, s.VersionName, s.Shape, s.Accepted)
	}
	names := make([]string, 0, len(d.Unresolved))
	for name := range d.Unresolved {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(tw, "Unresolved:\t%s (%d)\n", name, d.Unresolved[name])
	}
	return tw.Flush()
}
