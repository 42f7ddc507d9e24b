// Package lua runs user scripts in a sandboxed gopher-lua state.
//
// Scripts see only the base, table, string and math libraries. File,
// OS and debug access are removed, print is routed to a slog.Logger and
// every call runs under a timeout.
//
// The main client is IndentRule, which lets a script decide the wrap
// indentation of a line:
//
//	rule, err := lua.NewIndentRule(`
//	    function indent(text, tabWidth)
//	        local lead = text:match("^%s*[-*] ") or text:match("^%s*")
//	        return #lead
//	    end`)
//	if err != nil {
//	    return err
//	}
//	defer rule.Close()
//	doc.SetIndentRule(rule)
package lua
