package vterm

// Version returns the current version counter.
// This increments whenever visible content or the selection changes.
func (v *VTerm) Version() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.version
}

// bumpVersion increments the version counter.
// Called internally when content changes.
func (v *VTerm) bumpVersion() {
	v.version++
}

// Size returns the visible width and height.
func (v *VTerm) Size() (width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.Width, v.Height
}
