// Package pipeline wires the macro expander, first pass, and second pass
// into the single entry point the command-line driver calls per input file.
package pipeline

import (
	"fmt"
	"os"

	"github.com/mini15/mini15asm/asmline"
	"github.com/mini15/mini15asm/config"
	"github.com/mini15/mini15asm/diag"
	"github.com/mini15/mini15asm/encode"
	"github.com/mini15/mini15asm/macro"
)

// Outcome summarizes one file's run through the pipeline.
type Outcome struct {
	BaseName   string
	Expanded   string
	FirstPass  *asmline.FirstPassResult
	Encoded    *encode.Result
	Diagnostics *diag.List
	WroteOutput bool
}

// AssembleFile reads baseName+".as", runs the full pipeline, writes
// baseName+".am" unconditionally, and — if no stage reported an error —
// writes baseName+".ob"/".ent"/".ext". It never assumes a shell renamed
// anything; the caller supplies the base name directly.
func AssembleFile(baseName string, cfg *config.Config) (*Outcome, error) {
	srcPath := baseName + ".as"
	src, err := os.ReadFile(srcPath) // #nosec G304 -- user-supplied assembler source path
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", srcPath, err)
	}

	expander := macro.NewExpander(cfg.Assembler.MaxMacros, cfg.Assembler.MaxMacroBodyLine)
	expanded, macroErrs := expander.Expand(srcPath, string(src))

	outcome := &Outcome{BaseName: baseName, Expanded: expanded, Diagnostics: macroErrs}

	if err := os.WriteFile(baseName+".am", []byte(expanded), 0644); err != nil { // #nosec G306 -- assembler-generated listing, not sensitive
		return outcome, fmt.Errorf("failed to write %s.am: %w", baseName, err)
	}

	opts := asmline.Options{
		MemoryStart:             cfg.Assembler.MemoryStart,
		MaxLabelLength:          cfg.Assembler.MaxLabelLength,
		DiagnoseDuplicateLabels: cfg.Assembler.DiagnoseDupLabel,
	}
	fp, fpErrs := asmline.RunFirstPass(baseName+".am", expanded, opts)
	outcome.FirstPass = fp
	outcome.Diagnostics.Errors = append(outcome.Diagnostics.Errors, fpErrs.Errors...)
	outcome.Diagnostics.Warnings = append(outcome.Diagnostics.Warnings, fpErrs.Warnings...)

	res, encErrs := encode.Run(fp)
	outcome.Encoded = res
	outcome.Diagnostics.Errors = append(outcome.Diagnostics.Errors, encErrs.Errors...)
	outcome.Diagnostics.Warnings = append(outcome.Diagnostics.Warnings, encErrs.Warnings...)

	if anyRecordErred(fp) || outcome.Diagnostics.HasErrors() {
		return outcome, nil
	}

	if err := encode.WriteOutputFiles(baseName, res); err != nil {
		return outcome, err
	}
	outcome.WroteOutput = true
	return outcome, nil
}

func anyRecordErred(fp *asmline.FirstPassResult) bool {
	for _, rec := range fp.Records {
		if rec.Err {
			return true
		}
	}
	return false
}
