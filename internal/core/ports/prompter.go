package ports

// Prompter asks the user to make decisions during interactive commands.
//
//go:generate go run go.uber.org/mock/mockgen -source=prompter.go -destination=mocks/mock_prompter.go -package=mocks
type Prompter interface {
	// Confirm asks a yes/no question.
	Confirm(label string) (bool, error)
	// Select asks the user to pick one of items and returns its index.
	Select(label string, items []string) (int, error)
	// Prompt asks for free text, offering def as the default.
	Prompt(label, def string) (string, error)
}
