// Package git fetches DRL rule files from a Git repository.
//
// A Repository clones the configured branch into a local directory, keeps
// it current with Pull, and lists the rule files below the configured
// path so they can be handed to the parser:
//
//	repo, err := git.NewRepository(&cfg.Git, cfg.Parser.Extensions)
//	if err != nil {
//		return err
//	}
//	if err := repo.Clone(ctx); err != nil {
//		return err
//	}
//	result, err := parser.ParseDirectory(ctx, repo.RulesDir())
//
// Authentication supports HTTPS tokens, SSH keys and anonymous access.
package git
