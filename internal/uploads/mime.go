package uploads

import (
	"fmt"
	"sort"
	"strings"

	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	"github.com/gabriel-vasile/mimetype"
)

// sniffBytes is how much of the body is read before detection.
const sniffBytes = 3072

type mimeGroup string

const (
	mimeGroupImages mimeGroup = "images"
	mimeGroupPDFs   mimeGroup = "pdfs"
)

var mimeGroupNames = map[mimeGroup]string{
	mimeGroupImages: "images (jpeg, png, webp, gif)",
	mimeGroupPDFs:   "PDFs",
}

var mimeGroupTypes = map[mimeGroup][]string{
	mimeGroupImages: {"image/jpeg", "image/png", "image/webp", "image/gif"},
	mimeGroupPDFs:   {"application/pdf"},
}

var allowedMimeGroupsByKind = map[enums.UploadKind][]mimeGroup{
	enums.UploadKindImage:    {mimeGroupImages},
	enums.UploadKindDocument: {mimeGroupPDFs, mimeGroupImages},
}

var (
	mimeTypesByKind        = buildMimeTypesByKind()
	mimeDescriptionsByKind = buildMimeDescriptions()
)

func buildMimeTypesByKind() map[enums.UploadKind][]string {
	result := make(map[enums.UploadKind][]string, len(allowedMimeGroupsByKind))
	for kind, groups := range allowedMimeGroupsByKind {
		var list []string
		for _, group := range groups {
			list = append(list, mimeGroupTypes[group]...)
		}
		sort.Strings(list)
		result[kind] = list
	}
	return result
}

func buildMimeDescriptions() map[enums.UploadKind]string {
	result := make(map[enums.UploadKind]string, len(allowedMimeGroupsByKind))
	for kind, groups := range allowedMimeGroupsByKind {
		var names []string
		for _, group := range groups {
			names = append(names, mimeGroupNames[group])
		}
		switch len(names) {
		case 1:
			result[kind] = names[0]
		default:
			result[kind] = fmt.Sprintf("%s or %s", strings.Join(names[:len(names)-1], ", "), names[len(names)-1])
		}
	}
	return result
}

// detectMime sniffs the content and returns the bare media type when it is
// allowed for kind.
func detectMime(kind enums.UploadKind, head []byte) (string, bool) {
	detected := mimetype.Detect(head)
	for _, candidate := range mimeTypesByKind[kind] {
		if detected.Is(candidate) {
			return candidate, true
		}
	}
	mediaType, _, _ := strings.Cut(detected.String(), ";")
	return mediaType, false
}

func allowedMimeDescription(kind enums.UploadKind) string {
	if msg, ok := mimeDescriptionsByKind[kind]; ok && msg != "" {
		return msg
	}
	return "the approved file types"
}
