package rules

import "math/bits"

// RequestType is the enumeration of the content types a filter can be
// restricted to.  In order to save memory, we store the types as a flag.
type RequestType uint32

// RequestType enumeration.  The first group are resource types that a filter
// matches by default; the second group are types that only apply when named
// explicitly.
const (
	// TypeOther is any request type not covered by the rest ($other).
	TypeOther RequestType = 1 << iota
	// TypeScript (javascript, etc) $script
	TypeScript
	// TypeImage (any image) $image
	TypeImage
	// TypeStylesheet (css) $stylesheet
	TypeStylesheet
	// TypeObject (flash, etc) $object
	TypeObject
	// TypeSubdocument (iframe) $subdocument
	TypeSubdocument
	// TypeWebsocket (a websocket connection) $websocket
	TypeWebsocket
	// TypePing (navigator.sendBeacon() or ping attribute on links) $ping
	TypePing
	// TypeXmlhttprequest (ajax/fetch) $xmlhttprequest
	TypeXmlhttprequest
	// TypeMedia (video/music) $media
	TypeMedia
	// TypeFont (any custom font) $font
	TypeFont

	// TypeDocument (top-level frame) $document
	TypeDocument
	// TypePopup (popup windows) $popup
	TypePopup
	// TypeElemhide is the marker type of the $elemhide exception.
	TypeElemhide
	// TypeGenerichide is the marker type of the $generichide exception.
	TypeGenerichide
	// TypeGenericblock is the marker type of the $genericblock exception.
	TypeGenericblock
)

// TypeDefault is the set of types an untyped filter applies to.
const TypeDefault = TypeOther | TypeScript | TypeImage | TypeStylesheet |
	TypeObject | TypeSubdocument | TypeWebsocket | TypePing |
	TypeXmlhttprequest | TypeMedia | TypeFont

// Count returns the count of the enabled flags.
func (t RequestType) Count() int {
	return bits.OnesCount32(uint32(t))
}
