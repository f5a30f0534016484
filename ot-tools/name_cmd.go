package main

import (
	"fmt"

	"github.com/npillmayer/otname"
	"github.com/npillmayer/otname/names"
	"github.com/npillmayer/otname/ot"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
	"golang.org/x/image/font/sfnt"
)

func platformFlag(flags map[string]commando.FlagValue) names.Platforms {
	p, err := names.ParsePlatforms(mustFlagString(flags["platform"], "platform"))
	if err != nil {
		fatalf("%v", err)
	}
	return p
}

func runSetNameCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	id := mustNameID(flags["name-id"], "name-id")
	value := mustFlagString(flags["string"], "string")
	platforms := platformFlag(flags)
	lang := mustFlagString(flags["language"], "language")
	if _, err := names.LookupLanguage(lang); err != nil {
		fatalf("%v", err)
	}
	editFonts(args, flags, func(f *otname.Font) (bool, error) {
		if err := f.Names.Set(id, value, lang, platforms); err != nil {
			return false, err
		}
		return true, nil
	})
}

func runDelNameCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	id := mustNameID(flags["name-id"], "name-id")
	platforms := platformFlag(flags)
	lang := mustFlagString(flags["language"], "language")
	editFonts(args, flags, func(f *otname.Font) (bool, error) {
		n, err := f.Names.Delete(id, lang, platforms)
		if err != nil {
			return false, err
		}
		tracer().Infof("deleted %d records", n)
		return n > 0, nil
	})
}

func runCopyNameCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	src, err := names.ParseNameRef(mustFlagString(flags["source"], "source"))
	if err != nil {
		fatalf("%v", err)
	}
	dst, err := names.ParseNameRef(mustFlagString(flags["dest"], "dest"))
	if err != nil {
		fatalf("%v", err)
	}
	editFonts(args, flags, func(f *otname.Font) (bool, error) {
		if err := f.Names.Copy(src, dst); err != nil {
			return false, err
		}
		return true, nil
	})
}

func runFindReplaceCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	old := mustFlagString(flags["old"], "old")
	repl := mustFlagString(flags["new"], "new")
	filter := names.Filter{Name: optNameID(flags["name-id"], "name-id")}
	switch platformFlag(flags) {
	case names.Windows:
		filter.Platform = ot.Some(names.PlatformWindows)
	case names.Macintosh:
		filter.Platform = ot.Some(names.PlatformMacintosh)
	}
	fixCFF := mustFlagBool(flags["fix-cff"], "fix-cff")
	editFonts(args, flags, func(f *otname.Font) (bool, error) {
		var compact names.CompactStrings
		if fixCFF {
			compact = f.Compact()
		}
		n, err := f.Names.FindReplace(old, repl, filter, compact)
		if err != nil {
			return false, err
		}
		tracer().Infof("replaced %q in %d entries", old, n)
		return n > 0, nil
	})
}

func runWin2MacCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	editFonts(args, flags, func(f *otname.Font) (bool, error) {
		return f.Names.CopyWindowsToMac() > 0, nil
	})
}

func runDelMacNamesCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	exclude, err := parseNameIDs(optString(flags["exclude"], "exclude"))
	if err != nil {
		fatalf("invalid --exclude flag: %v", err)
	}
	editFonts(args, flags, func(f *otname.Font) (bool, error) {
		return f.Names.DeleteMacRecords(exclude...) > 0, nil
	})
}

func runLangHelpCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	data := [][]string{
		{"Tag", "Language", "Windows", "Macintosh"},
	}
	for _, l := range names.Languages() {
		mac := "-"
		if l.MacRoman {
			mac = fmt.Sprintf("%d", l.MacID)
		}
		data = append(data, []string{l.Tag, l.Name, fmt.Sprintf("%#04x", l.WindowsID), mac})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Info.Println("Languages without a Macintosh code are written to Windows records only.")
}

// nameFilter selects the name entries to print.
func nameFilter(id ot.Option[sfnt.NameID], platforms names.Platforms) func(names.Key) bool {
	return func(k names.Key) bool {
		if n, ok := id.Unwrap(); ok && k.Name != n {
			return false
		}
		return platforms == names.BothPlatforms || platforms.Has(k.Platform)
	}
}
