package cmdline

import "strings"

// PopCommandName removes the first token that does not start with "-" from
// tokens and returns it. The remaining tokens keep their order.
func PopCommandName(tokens *[]string) (string, bool) {
	if tokens == nil {
		return "", false
	}
	for i, token := range *tokens {
		if strings.HasPrefix(token, "-") {
			continue
		}
		*tokens = append((*tokens)[:i:i], (*tokens)[i+1:]...)
		return token, true
	}
	return "", false
}
