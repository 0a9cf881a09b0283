package conflict

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownKind    = errors.New("unknown conflict kind")
	ErrRecordNotFound = errors.New("conflicting record not found")
)

type Kind int

const (
	KindUnmergableFileType Kind = iota + 1
	KindBothEditedText
	KindBothEditedAttribute
	KindRemovedVsEdited
	KindRemovedVsEditedAttribute
	KindBothAdded
	KindBothReordered
)

type kindInfo struct {
	class       string
	typeGUID    string
	description string
}

var kindTable = map[Kind]kindInfo{
	KindUnmergableFileType:       {"UnmergableFileTypeConflict", "18C7E1A2-2F69-442F-9057-6B3AC9833675", "Merge Failure"},
	KindBothEditedText:           {"BothEditedTextConflict", "C1ED6DBE-E382-11DE-8A39-0800200C9A66", "Both Edited Text Field Conflict"},
	KindBothEditedAttribute:      {"BothEditedAttributeConflict", "5BBDF4F6-953A-4F79-BDCD-0B1F733DA4AB", "Both Edited Attribute Conflict"},
	KindRemovedVsEdited:          {"RemovedVsEditedElementConflict", "3D9BA4AC-4A25-11DF-9879-0800200C9A66", "Removed Vs Edited Element Conflict"},
	KindRemovedVsEditedAttribute: {"RemovedVsEditedAttributeConflict", "C1ED6DC0-E382-11DE-8A39-0800200C9A66", "Removed Vs Edited Attribute Conflict"},
	KindBothAdded:                {"BothAddedElementConflict", "B8D5A6C2-7D43-4F7E-9E0B-24C1F0E8A3D1", "Both Added Element Conflict"},
	KindBothReordered:            {"BothReorderedElementConflict", "A7F1E3B9-1C52-4B8D-8E6F-5D0C9B4A2E17", "Both Reordered Elements Conflict"},
}

var kindByGUID = func() map[string]Kind {
	m := make(map[string]Kind, len(kindTable))
	for k, info := range kindTable {
		m[info.typeGUID] = k
	}
	return m
}()

func (k Kind) String() string {
	if info, ok := kindTable[k]; ok {
		return info.class
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// TypeGUID is the fixed identity constant of the kind.
func (k Kind) TypeGUID() string {
	return kindTable[k].typeGUID
}

// KindForGUID maps a type GUID back to its kind.
func KindForGUID(guid string) (Kind, error) {
	k, ok := kindByGUID[strings.ToUpper(guid)]
	if !ok {
		return 0, fmt.Errorf("%w: type guid %q", ErrUnknownKind, guid)
	}
	return k, nil
}

// Kinds returns all conflict kinds.
func Kinds() []Kind {
	return []Kind{
		KindUnmergableFileType,
		KindBothEditedText,
		KindBothEditedAttribute,
		KindRemovedVsEdited,
		KindRemovedVsEditedAttribute,
		KindBothAdded,
		KindBothReordered,
	}
}
