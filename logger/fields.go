package logger

// Standard field names for structured logging.
// Using constants keeps keys consistent across frontends and generators.
const (
	FieldLanguage = "language"    // Frontend or backend language (rust, python, c, csharp)
	FieldLibrary  = "library"     // Library identifier
	FieldModule   = "module"      // Module path
	FieldObject   = "object"      // Object path
	FieldFunction = "function"    // Function identifier
	FieldItem     = "item"        // Source item that was skipped or failed
	FieldTemplate = "template"    // Template name
	FieldSection  = "section"     // Output section name
	FieldFile     = "file"        // Source or output file path
	FieldPath     = "path"        // Directory or IR path
	FieldCount    = "count"       // Number of items produced
	FieldDuration = "duration_ms" // Operation duration in milliseconds
	FieldError    = "error"       // Error message
)
