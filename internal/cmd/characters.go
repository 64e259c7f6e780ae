package cmd

import "github.com/renato0307/outpost/internal/domain"

// CharactersCmd manages characters
type CharactersCmd struct {
	Create CharactersCreateCmd `cmd:"create" help:"Create a character"`
	Rename CharactersRenameCmd `cmd:"rename" help:"Rename a character"`
	Delete CharactersDeleteCmd `cmd:"delete" help:"Delete a character"`
}

// CharactersCreateCmd creates a character
type CharactersCreateCmd struct {
	Name string `arg:"" help:"Character name (3-20 characters)"`
}

// Run executes the create command
func (c *CharactersCreateCmd) Run(cli *CLI) error {
	return cli.execute(domain.KindCreateCharacter, domain.Payload{CharacterName: c.Name})
}

// CharactersRenameCmd renames a character
type CharactersRenameCmd struct {
	ID   string `arg:"" help:"Character ID"`
	Name string `arg:"" help:"New name (3-20 characters)"`
}

// Run executes the rename command
func (c *CharactersRenameCmd) Run(cli *CLI) error {
	return cli.execute(domain.KindRenameCharacter, domain.Payload{CharacterID: c.ID, CharacterName: c.Name})
}

// CharactersDeleteCmd deletes a character
type CharactersDeleteCmd struct {
	ID string `arg:"" help:"Character ID"`
}

// Run executes the delete command
func (c *CharactersDeleteCmd) Run(cli *CLI) error {
	return cli.execute(domain.KindDeleteCharacter, domain.Payload{CharacterID: c.ID})
}
