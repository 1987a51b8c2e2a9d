// Package render draws onboarding documents as PDF.
//
// # Overview
//
// Rendering is split in two parts:
//
//   - The [Renderer] draws one planned page: the overview, the currency
//     table, a detail page per onboarding record and a manual page per
//     top-up station.
//   - The [Assembler] walks a [layout.Plan] in ordinal order, adds one PDF
//     page per descriptor, recovers page-local failures and draws the
//     shared footer.
//
// All coordinates are PDF points on an A4 portrait page with the origin
// at the top-left corner, matching [layout].
//
// # Failures
//
// A missing manual image is not an error: the manual page shows a
// fallback notice instead. Any other failure inside a page, including a
// panic or a sticky fpdf error, is logged and replaced by an in-page error
// block so the rest of the document still renders. Only failures outside
// the page loop (creating the canvas, writing the file) are returned.
//
//	a := render.NewAssembler(render.WithLogger(logger))
//	report, err := a.Assemble(ctx, plan, rc)
//	if err != nil {
//	    return err
//	}
//	err = report.Document.WriteFile("onboarding_app_summercamp_all.pdf")
//
// [layout]: github.com/KaiDries/OnboardingQR/pkg/layout
// [layout.Plan]: github.com/KaiDries/OnboardingQR/pkg/layout#Plan
package render
