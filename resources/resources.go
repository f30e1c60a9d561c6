// Package resources contains the bundled replacement resources that
// $rewrite=abp-resource: filters can redirect requests to.  Every resource is
// a data: URL, so the redirect never triggers another network request.
package resources

// resourceMap maps a resource name to its data: URL.
var resourceMap = map[string]string{
	"blank-text": "data:text/plain,",
	"blank-css":  "data:text/css,",
	"blank-js":   "data:application/javascript,",
	"blank-html": "data:text/html,<!DOCTYPE html><html><head></head><body></body></html>",
	"blank-mp3": "data:audio/mpeg;base64,SUQzBAAAAAAAI1RTU0UAAAAPAAADTGF2ZjU3LjQxLjEwMAAAAAAAAAAAAAAA//tAwAAAAAAA" +
		"AAAAAAAAAAAAAAAASW5mbwAAAA8AAAACAAABhgC7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7" +
		"u7u7u7u7u7u7u7u7u7u7u7u7u7u7/////////////////////////////////////////////AAAA" +
		"AExhdmM1Ny40OAAAAAAAAAAAAAAAACQCgAAAAAAAAAGGm0DRCAAA",
	"blank-mp4": "data:video/mp4;base64,AAAAHGZ0eXBpc29tAAACAGlzb21pc28ybXA0MQAAAAhmcmVlAAAC721kYXQhEAUgpBv/wAAk" +
		"bhBFIKQb/8AAJG4QRSCkG//AACRuEEUgpBv/wAAkbhBFIKQb/8AAJG4=",
	"1x1-transparent-gif": "data:image/gif;base64,R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7",
	"2x2-transparent-png": "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAIAAAACCAYAAABytg0kAAAAC0lEQVQYV2NkAAIAAAoAAggA9GkA" +
		"AAAASUVORK5CYII=",
	"3x2-transparent-png": "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAMAAAACCAYAAACddGYaAAAADUlEQVQYV2NkYGD4DwABBAEAwS2O" +
		"UAAAAABJRU5ErkJggg==",
	"32x32-transparent-png": "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAACAAAAAgCAYAAABzenr0AAAAEUlEQVRYR+3BAQEAAACCIP+vbkhA" +
		"AQAAAO8GECAAAZf3V9cAAAAASUVORK5CYII=",
}

// Lookup resolves a resource name to its data: URL.
func Lookup(name string) (url string, ok bool) {
	url, ok = resourceMap[name]

	return url, ok
}

// Names returns the names of all bundled resources.
func Names() (names []string) {
	names = make([]string, 0, len(resourceMap))
	for name := range resourceMap {
		names = append(names, name)
	}

	return names
}
