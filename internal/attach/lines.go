package attach

import (
	"strings"

	"figure-assembler/internal/descriptor"
	"figure-assembler/internal/registry"
)

// ParseAttachmentLine parses one line of an attachment block. Supported forms:
//
//	bone:resource
//	bone:::resource
//	child:parent:(dx,dy,dz):resource
//
// Attachment blocks share raw-line storage with DynamicVisual geometry, so
// face rows, vertex rows, and section keywords all legitimately occur here;
// they return (zero, false) rather than a diagnostic.
func ParseAttachmentLine(raw string) (Attachment, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.HasPrefix(s, "class:") {
		return Attachment{}, false
	}
	if strings.HasPrefix(s, "DynamicVisual:") || strings.HasPrefix(s, "Material:") || strings.HasPrefix(s, "FaceArray:") {
		return Attachment{}, false
	}
	if strings.HasPrefix(s, "<") {
		return Attachment{}, false
	}
	if !strings.Contains(s, ":") {
		return Attachment{}, false
	}
	if registry.LooksLikeCoordinateData(s) {
		return Attachment{}, false
	}

	parts := strings.Split(s, ":")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	// bone:resource
	if len(parts) == 2 {
		if registry.LooksLikeCoordinateData(parts[1]) {
			return Attachment{}, false
		}
		return Attachment{AttachBone: parts[0], ResourceID: parts[1]}, true
	}

	// bone:::resource (explicit empty middle fields)
	if len(parts) >= 4 && parts[1] == "" && parts[2] == "" {
		if registry.LooksLikeCoordinateData(parts[3]) {
			return Attachment{}, false
		}
		return Attachment{AttachBone: parts[0], ResourceID: parts[3]}, true
	}

	// child:parent:(dx,dy,dz):resource (synthetic child frame)
	if len(parts) >= 4 && strings.HasPrefix(parts[2], "(") {
		if registry.LooksLikeCoordinateData(parts[3]) {
			return Attachment{}, false
		}
		offset, _ := descriptor.Tuple3(parts[2]) // zero vector on parse failure
		return Attachment{
			AttachBone:  parts[0],
			ResourceID:  parts[3],
			ChildName:   parts[0],
			ParentBone:  parts[1],
			ChildOffset: &offset,
		}, true
	}

	return Attachment{}, false
}

// ParseAttachmentBlock parses every attachment line in a block, ignoring
// the geometry rows interleaved with them.
func ParseAttachmentBlock(lines []string) []Attachment {
	var out []Attachment
	for _, raw := range lines {
		if att, ok := ParseAttachmentLine(raw); ok {
			out = append(out, att)
		}
	}
	return out
}
