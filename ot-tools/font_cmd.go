package main

import (
	"fmt"
	"strings"

	"github.com/npillmayer/otname"
	"github.com/npillmayer/otname/names"
	"github.com/npillmayer/otname/otquery"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

func runNamesCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	keep := nameFilter(optNameID(flags["name-id"], "name-id"), platformFlag(flags))
	readFonts(args, flags, func(path string, f *otname.Font) error {
		pterm.Info.Println(path)
		data := [][]string{
			{"ID", "Platform", "Enc", "Lang", "Value"},
		}
		for _, e := range otquery.NameEntries(f.Names) {
			k := names.Key{Platform: e.Platform, Encoding: e.Encoding, Language: e.LanguageID, Name: e.ID}
			if !keep(k) {
				continue
			}
			data = append(data, []string{
				fmt.Sprintf("%d", e.ID),
				e.Platform.String(),
				fmt.Sprintf("%d", e.Encoding),
				e.Language,
				e.Value,
			})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}
		if f.CFF == nil {
			return nil
		}
		cffData := [][]string{{"CFF field", "Value"}}
		for _, field := range f.CFF.FieldNames() {
			cffData = append(cffData, []string{field, f.CFFField(field).Or("")})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(cffData).Render()
	})
}

func runInfoCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	showIssues := mustFlagBool(flags["errors"], "errors")
	readFonts(args, flags, func(path string, f *otname.Font) error {
		info := otquery.Info(f.OT, f.Names)
		fmt.Printf("Path: %s\n", path)
		fmt.Printf("Type: %s\n", info.Flavor)
		fmt.Printf("Full name: %s\n", info.FullName)
		fmt.Printf("Family: %s\n", info.Family)
		fmt.Printf("Subfamily: %s\n", info.Subfamily)
		fmt.Printf("Tables (%d): %s\n", len(info.Tables), strings.Join(info.Tables, " "))
		fmt.Printf("Glyphs: %d\n", info.NumGlyphs)
		fmt.Printf("Name records: %d\n", info.NameRecords)
		fmt.Printf("Revision: %.3f, units per em: %d\n", info.Head.FontRevision, info.Head.UnitsPerEm)
		fmt.Printf("Modified: %s\n", info.Head.Modified.Format("2006-01-02 15:04:05"))
		fmt.Printf("macStyle: %s\n", flagList(otquery.MacStyleFlags(info.Head.MacStyle)))
		if info.HasOS2 {
			fmt.Printf("OS/2 version %d, vendor %q\n", info.OS2.Version, info.OS2.VendorID)
			fmt.Printf("Weight class: %d, width class: %d\n", info.OS2.WeightClass, info.OS2.WidthClass)
			fmt.Printf("fsSelection: %s\n", flagList(otquery.FsSelectionFlags(info.OS2.FsSelection)))
			fmt.Printf("Embedding: %s\n", otquery.Embedding(info.OS2.FsType))
		}
		fmt.Printf("Italic angle: %.1f\n", info.ItalicAngle)
		if f.SFNT == nil {
			pterm.Warning.Println("font cannot be read by golang.org/x/image/font/sfnt")
		}
		errs, warns := f.OT.Errors(), f.OT.Warnings()
		fmt.Printf("Issues: errors=%d warnings=%d\n", len(errs), len(warns))
		if showIssues {
			for _, e := range errs {
				fmt.Printf("error: %s\n", e.Error())
			}
			for _, w := range warns {
				fmt.Printf("warning: %s\n", w.String())
			}
		}
		fmt.Println()
		return nil
	})
}

func flagList(flags []string) string {
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, "|")
}
