package abp2dnr

import "github.com/kzar/abp2dnr/rules"

// requestTypeTags is the fixed mapping from filter request types to
// declarative resource type names.  Note that TypeOther maps to two names:
// CSP reports have their own resource type in the declarative schema, while
// the filter language folds them into $other.
var requestTypeTags = []struct {
	typ  rules.RequestType
	tags []string
}{
	{rules.TypeOther, []string{"other", "csp_report"}},
	{rules.TypeScript, []string{"script"}},
	{rules.TypeImage, []string{"image"}},
	{rules.TypeStylesheet, []string{"stylesheet"}},
	{rules.TypeObject, []string{"object"}},
	{rules.TypeSubdocument, []string{ResourceTypeSubFrame}},
	{rules.TypeWebsocket, []string{"websocket"}},
	{rules.TypePing, []string{"ping"}},
	{rules.TypeXmlhttprequest, []string{"xmlhttprequest"}},
	{rules.TypeMedia, []string{"media"}},
	{rules.TypeFont, []string{"font"}},
}

// supportedRequestTypes is the set of request types representable in a
// declarative rule condition.  Top-level documents are deliberately absent:
// blocking them is expressed through allowAllRequests exceptions only.
var supportedRequestTypes = func() (t rules.RequestType) {
	for _, m := range requestTypeTags {
		t |= m.typ
	}

	return t
}()

// resourceTypes translates the set of request types into declarative
// resource type names.  When the set covers every supported type, it returns
// nil and omit=true: the resourceTypes field should then be left out of the
// condition, since the engine default already matches all of them.  An empty
// non-omitted result means no supported type is left and no rule should be
// generated at all.
func resourceTypes(t rules.RequestType) (tags []string, omit bool) {
	if t&supportedRequestTypes == supportedRequestTypes {
		return nil, true
	}

	for _, m := range requestTypeTags {
		if t&m.typ != 0 {
			tags = append(tags, m.tags...)
		}
	}

	return tags, false
}
