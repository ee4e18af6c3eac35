package docfold

// buildHeadingNumbersCSS generates counter-based section numbering for
// h2-h4. h1 is left unnumbered; documents typically use it as the title.
func buildHeadingNumbersCSS() string {
	return `
/* Heading numbers */
body { counter-reset: sec; }
h2 { counter-reset: subsec; }
h3 { counter-reset: subsubsec; }
h2::before {
  counter-increment: sec;
  content: counter(sec) ". ";
}
h3::before {
  counter-increment: subsec;
  content: counter(sec) "." counter(subsec) " ";
}
h4::before {
  counter-increment: subsubsec;
  content: counter(sec) "." counter(subsec) "." counter(subsubsec) " ";
}
`
}
