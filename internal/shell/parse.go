package shell

// parseStages splits a token stream on pipes into stages and folds a
// trailing redirect into the final stage. Redirection anywhere but the
// final stage, empty stages, and missing redirect targets are parse errors.
func parseStages(tokens []token) ([]Stage, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	var (
		stages  []Stage
		current Stage
		started bool
	)

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.kind {
		case tokenWord:
			if current.Redirect != nil {
				return nil, parseErrorf("unexpected token %q after redirect target", tok.text)
			}
			if !started {
				current.Name = tok.text
				started = true
			} else {
				current.Args = append(current.Args, tok.text)
			}

		case tokenPipe:
			if !started {
				return nil, parseErrorf("empty pipeline stage")
			}
			if current.Redirect != nil {
				return nil, parseErrorf("redirection is only allowed on the final stage")
			}
			stages = append(stages, current)
			current = Stage{}
			started = false

		case tokenRedirect, tokenAppend:
			if !started {
				return nil, parseErrorf("empty pipeline stage")
			}
			if current.Redirect != nil {
				return nil, parseErrorf("multiple redirects")
			}
			if i+1 >= len(tokens) || tokens[i+1].kind != tokenWord {
				return nil, parseErrorf("missing redirect target after %q", tok.text)
			}
			mode := ModeOverwrite
			if tok.kind == tokenAppend {
				mode = ModeAppend
			}
			current.Redirect = &Redirect{Path: tokens[i+1].text, Mode: mode}
			i++
		}
	}

	if !started {
		return nil, parseErrorf("empty pipeline stage")
	}
	stages = append(stages, current)

	return stages, nil
}
