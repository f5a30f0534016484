package main

import (
	"strconv"

	"github.com/pterm/pterm"
)

// Operations on the word dictionary. Rows are refreshed after each change,
// as their style words and names depend on the dictionary.

func dictOp(intp *Intp, op *Op) (error, bool) {
	printDictionary(intp.dict)
	return nil, false
}

func weightOp(intp *Intp, op *Op) (error, bool) {
	if err := op.needArgs(3, "<class> <word> <word>"); err != nil {
		return err, false
	}
	class, err := strconv.Atoi(op.args[0])
	if err != nil {
		return err, false
	}
	if err = intp.dict.SetWeight(class, op.args[1], op.args[2]); err != nil {
		return err, false
	}
	return intp.refreshRows(), false
}

func widthOp(intp *Intp, op *Op) (error, bool) {
	if err := op.needArgs(3, "<class> <word> <word>"); err != nil {
		return err, false
	}
	class, err := strconv.Atoi(op.args[0])
	if err != nil {
		return err, false
	}
	if err = intp.dict.SetWidth(class, op.args[1], op.args[2]); err != nil {
		return err, false
	}
	return intp.refreshRows(), false
}

func italicOp(intp *Intp, op *Op) (error, bool) {
	if err := op.needArgs(2, "<word> <word>"); err != nil {
		return err, false
	}
	if err := intp.dict.SetItalic(op.args[0], op.args[1]); err != nil {
		return err, false
	}
	return intp.refreshRows(), false
}

func obliqueOp(intp *Intp, op *Op) (error, bool) {
	if err := op.needArgs(2, "<word> <word>"); err != nil {
		return err, false
	}
	if err := intp.dict.SetOblique(op.args[0], op.args[1]); err != nil {
		return err, false
	}
	return intp.refreshRows(), false
}

func delWeightOp(intp *Intp, op *Op) (error, bool) {
	if err := op.needArgs(1, "<class>"); err != nil {
		return err, false
	}
	class, err := strconv.Atoi(op.args[0])
	if err != nil {
		return err, false
	}
	if err = intp.dict.DeleteWeight(class); err != nil {
		return err, false
	}
	return intp.refreshRows(), false
}

func delWidthOp(intp *Intp, op *Op) (error, bool) {
	if err := op.needArgs(1, "<class>"); err != nil {
		return err, false
	}
	class, err := strconv.Atoi(op.args[0])
	if err != nil {
		return err, false
	}
	if err = intp.dict.DeleteWidth(class); err != nil {
		return err, false
	}
	return intp.refreshRows(), false
}

func dictResetOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.dict.Reset(intp.confirm("Reset the dictionary to its defaults?")); err != nil {
		return err, false
	}
	return intp.refreshRows(), false
}

func dictSaveOp(intp *Intp, op *Op) (error, bool) {
	path, ok := op.arg(0)
	if !ok {
		path = intp.dictPath
	}
	if path == "" {
		return op.needArgs(1, "<file.yaml|file.json>"), false
	}
	if err := intp.dict.Save(path); err != nil {
		return err, false
	}
	intp.dictPath = path
	pterm.Success.Printf("dictionary saved to %s\n", path)
	return nil, false
}

func dictLoadOp(intp *Intp, op *Op) (error, bool) {
	if err := op.needArgs(1, "<file.yaml|file.json>"); err != nil {
		return err, false
	}
	if err := intp.loadDictionary(op.args[0]); err != nil {
		return err, false
	}
	if err := intp.engine.SetDictionary(intp.dict); err != nil {
		return err, false
	}
	intp.dirty = intp.dirty || intp.engine.Len() > 0
	return nil, false
}

// refreshRows derives the words and names of all rows from the edited
// dictionary.
func (intp *Intp) refreshRows() error {
	if intp.engine.Len() == 0 {
		return nil
	}
	if err := intp.engine.SetDictionary(intp.dict); err != nil {
		return err
	}
	intp.dirty = true
	tracer().Infof("%d rows refreshed", intp.engine.Len())
	return nil
}
