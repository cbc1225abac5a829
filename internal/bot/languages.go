package bot

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"albot/internal/botkit"
)

// helloWorlds maps a language name to a one-line hello world program. The
// name doubles as the code block's syntax tag.
var helloWorlds = map[string]string{
	"arm":        `.global _start; _start: mov r0, #1; adr r1, msg; mov r2, #14; mov r7, #4; svc #0; mov r0, #0; mov r7, #1; svc #0; msg: .ascii "Hello, World!\n"`,
	"bash":       `echo "Hello, World!"`,
	"c":          `int puts(const char *s); int main(void) { puts("Hello, World!"); return 0; }`,
	"cobol":      `IDENTIFICATION DIVISION. PROGRAM-ID. HELLO. PROCEDURE DIVISION. DISPLAY "Hello, World!". STOP RUN.`,
	"cpp":        `import std; int main() { std::println("Hello, World!"); }`,
	"csharp":     `System.Console.WriteLine("Hello, World!");`,
	"erlang":     `io:format("Hello, World!~n").`,
	"go":         `package main; import "fmt"; func main() { fmt.Println("Hello, World!") }`,
	"haskell":    `main = putStrLn "Hello, World!"`,
	"java":       `public class Main { public static void main(String[] args) { System.out.println("Hello, World!"); } }`,
	"javascript": `console.log("Hello, World!");`,
	"julia":      `println("Hello, World!")`,
	"lisp":       `(format t "Hello, World!~%")`,
	"lua":        `print("Hello, World!")`,
	"objectivec": `int main() { @autoreleasepool { NSLog(@"Hello, World!"); } return 0; }`,
	"pascal":     `program Hello; begin writeln('Hello, World!'); end.`,
	"perl":       `print "Hello, World!\n";`,
	"php":        `<?php echo "Hello, World!\n";`,
	"python":     `print("Hello, World!")`,
	"ruby":       `puts "Hello, World!"`,
	"rust":       `fn main() { println!("Hello, World!"); }`,
	"scala":      `@main def hello(): Unit = println("Hello, World!")`,
	"swift":      `print("Hello, World!")`,
}

// Languages returns the supported language names in alphabetical order.
func Languages() []string {
	names := lo.Keys(helloWorlds)
	slices.Sort(names)
	return names
}

// HelloSnippet returns the hello world code block for lang. Matching ignores
// case and surrounding space.
func HelloSnippet(lang string) (string, bool) {
	name := botkit.Fold(lang)

	code, ok := helloWorlds[name]
	if !ok {
		return "", false
	}

	return fmt.Sprintf("```%s\n%s\n```\n", name, code), true
}

// LanguageList is the reply of the listing command: one language per line.
func LanguageList() string {
	var sb strings.Builder
	for _, name := range Languages() {
		sb.WriteString(name)
		sb.WriteByte('\n')
	}
	return sb.String()
}
