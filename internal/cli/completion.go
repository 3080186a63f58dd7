// Package cli provides shell completion support
package cli

import (
	"fmt"
	"io"
)

// BashCompletion is the bash completion script for the trap command
const BashCompletion = `#!/bin/bash
# Bash completion for trap

_trap_completion() {
    local cur prev commands
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    commands="calc profile render demo completion version help"

    case "${prev}" in
        -method)
            COMPREPLY=( $(compgen -W "prefix two-pointer" -- ${cur}) )
            return 0
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- ${cur}) )
            return 0
            ;;
        calc)
            COMPREPLY=( $(compgen -W "-method -heights -server -timeout" -- ${cur}) )
            return 0
            ;;
        profile)
            COMPREPLY=( $(compgen -W "-heights -json" -- ${cur}) )
            return 0
            ;;
        render)
            COMPREPLY=( $(compgen -W "-heights -rows -no-color" -- ${cur}) )
            return 0
            ;;
    esac

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "${commands}" -- ${cur}) )
    fi
    return 0
}

complete -F _trap_completion trap
`

// ZshCompletion is the zsh completion script for the trap command
const ZshCompletion = `#compdef trap

_trap() {
    local -a commands
    commands=(
        'calc:Compute trapped water'
        'profile:Show left/right highest profiles and basins'
        'render:Draw the terrain with its water'
        'demo:Run the reference examples'
        'completion:Print a shell completion script'
        'version:Print the version'
    )

    _arguments -C \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                calc)
                    _arguments \
                        '-method[computation method]:method:(prefix two-pointer)' \
                        '-heights[comma separated heights]:heights:' \
                        '-server[rainwater service URL]:url:' \
                        '-timeout[request timeout]:duration:'
                    ;;
                profile)
                    _arguments \
                        '-heights[comma separated heights]:heights:' \
                        '-json[print the profile as JSON]'
                    ;;
                render)
                    _arguments \
                        '-heights[comma separated heights]:heights:' \
                        '-rows[maximum rows to draw]:rows:' \
                        '-no-color[disable colored output]'
                    ;;
                completion)
                    _values 'shell' bash zsh
                    ;;
            esac
            ;;
    esac
}

_trap "$@"
`

// GenerateCompletion writes the completion script for shell to w
func GenerateCompletion(w io.Writer, shell string) error {
	var script string

	switch shell {
	case "bash":
		script = BashCompletion
	case "zsh":
		script = ZshCompletion
	default:
		return fmt.Errorf("unsupported shell: %s (supported: bash, zsh)", shell)
	}

	_, err := io.WriteString(w, script)
	return err
}
