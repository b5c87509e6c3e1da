package linkcheck

// Event reports progress after one link has been checked.
type Event struct {
	DocID    string
	URL      string // Href of the link just checked
	Checked  int    // Links checked so far
	Total    int    // Links in the working document
	Findings int    // Findings recorded so far
	Errors   int    // Error-severity findings recorded so far
}
