package domain

// TestStatus represents the execution behavior of a test block.
type TestStatus string

const (
	// TestStatusActive indicates a normal block that runs.
	TestStatusActive TestStatus = "active"
	// TestStatusSkipped indicates a block excluded from execution (.skip, xit).
	TestStatusSkipped TestStatus = "skipped"
	// TestStatusTodo indicates a block not yet implemented.
	TestStatusTodo TestStatus = "todo"
	// TestStatusFocused indicates a debugging-only block (.only, fit).
	TestStatusFocused TestStatus = "focused"
)
