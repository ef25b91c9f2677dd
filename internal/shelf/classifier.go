package shelf

// Classification is the classifier's verdict for one piece of content.
type Classification struct {
	Type         ItemType
	PreviewText  string
	PreviewImage []byte // PNG, or nil when no image preview applies
}

// Classifier inspects raw content and assigns a type plus derived previews.
type Classifier interface {
	// Classify determines the item type and previews for the given content.
	// ref supplies the file name, the explicit type hint (honored outright
	// when set), and whether the content is inline text rather than a file.
	// Returns ErrContentUnreadable (wrapped) if the content cannot be decoded.
	Classify(ref ExternalRef, data []byte) (Classification, error)
}
