package xtoast

// View is the display unit for one record. It holds no lifecycle state; the
// close control reports intent back to the queue that produced it.
type View struct {
	Record Record
	queue  *Queue
}

// Classes returns the display tokens for the record's kind and theme.
func (v *View) Classes() []string {
	return []string{v.Record.TypeClass(), v.Record.ThemeClass()}
}

// HasText reports whether there is anything to print.
func (v *View) HasText() bool { return v.Record.Title != "" || v.Record.Body != "" }

// ShowsClose reports whether the close control is rendered.
func (v *View) ShowsClose() bool { return v.Record.ShowClose }

// Close is wired to the close control. It reports whether the record was still active.
func (v *View) Close() bool {
	if v.queue == nil {
		return false
	}
	return v.queue.Dismiss(v.Record.ID)
}
