package errors

import "errors"

// Static errors for tree and resolution operations.
var (
	// ErrInvalidMode is returned when an unrecognized propagation mode is supplied.
	// This is the only failure the resolution engine itself can produce.
	ErrInvalidMode = errors.New("invalid propagation mode")

	// ErrInvalidNodeName is returned when a node name is empty or contains a path separator.
	ErrInvalidNodeName = errors.New("invalid node name")

	// ErrChildExists is returned when adding a child whose name is already taken.
	ErrChildExists = errors.New("child already exists")

	// ErrNodeNotFound is returned when no node exists at the given path.
	ErrNodeNotFound = errors.New("node not found")

	// ErrNodeExists is returned when creating a node at an occupied path.
	ErrNodeExists = errors.New("node already exists")

	// ErrInvalidPath is returned when a path does not start at the tree root.
	ErrInvalidPath = errors.New("invalid path")

	// ErrCannotDeleteRoot is returned when attempting to delete the root node.
	ErrCannotDeleteRoot = errors.New("cannot delete root node")

	// ErrCannotRenameRoot is returned when attempting to rename the root node.
	ErrCannotRenameRoot = errors.New("cannot rename root node")

	// ErrAttributeNotFound is returned when deleting an attribute that does not exist.
	ErrAttributeNotFound = errors.New("attribute not found")
)

// Static errors for serialization.
var (
	// ErrInvalidTreeData is returned when tree data has a malformed shape.
	ErrInvalidTreeData = errors.New("invalid tree data")

	// ErrUnsupportedFormat is returned for file extensions the codec does not handle.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoMatchingFiles is returned when a file glob matches nothing.
	ErrNoMatchingFiles = errors.New("no matching files")
)

// Static errors for schema validation.
var (
	// ErrSchemaViolation is returned when a value fails schema validation.
	ErrSchemaViolation = errors.New("schema violation")

	// ErrInvalidSchemaType is returned when a schema declares an unknown type.
	ErrInvalidSchemaType = errors.New("invalid schema type")
)
