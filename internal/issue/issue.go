// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies a catalog entry.
type Id int

const (
	DriverNotBuiltId Id = iota + 1
	AppNotBuiltId
	ObjdirNotFoundId
	DebuggerNotFoundId
	DebuggerArgsNeedShellId
	SelfTestFailedId
	MakeNotFoundId
	ConfigLoadFailedId
)

type (
	// MarkdownMsg is catalog text rendered with glamour.
	MarkdownMsg string

	// HttpLink is a reference shown under "See also".
	HttpLink string

	// Issue is one catalog entry.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the entry for a terminal. stylePath is a glamour style
// name such as "dark", "light" or "notty".
func (i *Issue) Render(stylePath string) (string, error) {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			sb.WriteString("\n- <" + string(link) + ">")
		}
	}
	return render(sb.String(), stylePath)
}

var (
	render = glamour.Render

	driverNotBuiltIssue = &Issue{
		id: DriverNotBuiltId,
		mdMsg: `
# geckodriver is not built!

The object directory has no geckodriver binary in it.

## Things you can try:
- Enable the driver in your mozconfig:
~~~
ac_add_options --enable-geckodriver
~~~
- Then rebuild:
~~~
$ ./mach build
~~~
- Check that gdmach looks at the right object directory:
~~~
$ gdmach --objdir obj-ff-dbg driver-run --dry-run
~~~`,
		docLinks: []HttpLink{"https://firefox-source-docs.mozilla.org/testing/geckodriver/Building.html"},
	}

	appNotBuiltIssue = &Issue{
		id: AppNotBuiltId,
		mdMsg: `
# The application binary is not built!

geckodriver needs a browser to drive and the object directory does not have one.

## Things you can try:
- Build the browser:
~~~
$ ./mach build
~~~
- Point geckodriver at another binary:
~~~
$ gdmach driver-run --binary /path/to/firefox
~~~
- If your build names the binary differently, set ` + "`binaries.app`" + ` in the config file.`,
	}

	objdirNotFoundIssue = &Issue{
		id: ObjdirNotFoundId,
		mdMsg: `
# No object directory found!

gdmach looks for the build output in this order:
1. The ` + "`--objdir`" + ` flag
2. The ` + "`MOZ_OBJDIR`" + ` environment variable
3. ` + "`build.objdir`" + ` in the config file
4. The first ` + "`obj-*`" + ` directory in the current directory

## Things you can try:
- Run gdmach from the top of the source tree
- Build the tree once so the object directory exists:
~~~
$ ./mach build
~~~`,
	}

	debuggerNotFoundIssue = &Issue{
		id: DebuggerNotFoundId,
		mdMsg: `
# Debugger not found!

The debugger you asked for, or any of the default ones for this platform, is not on your PATH.

## Things you can try:
- See which debuggers gdmach knows and which are installed:
~~~
$ gdmach debuggers
~~~
- Install gdb or lldb with your package manager
- Name a debugger explicitly, by command or by path:
~~~
$ gdmach driver-run --debugger /usr/local/bin/gdb
~~~`,
		extLinks: []HttpLink{"https://sourceware.org/gdb/", "https://lldb.llvm.org/"},
	}

	debuggerArgsNeedShellIssue = &Issue{
		id: DebuggerArgsNeedShellId,
		mdMsg: `
# Debugger arguments need a real shell!

` + "`--debugger-args`" + ` is split into words with shell quoting rules, but it is never
handed to a shell. Pipes, redirections, variables, globs and command lists
cannot be honored.

## Things you can try:
- Quote the character so it is passed literally:
~~~
$ gdmach driver-run --debugger-args "-ex 'break foo|bar'"
~~~
- Put debugger commands in a script and pass the file instead:
~~~
$ gdmach driver-run --debugger gdb --debugger-args "-x cmds.gdb"
~~~`,
	}

	selfTestFailedIssue = &Issue{
		id: SelfTestFailedId,
		mdMsg: `
# geckodriver unit tests failed!

The build target that compiles and runs the driver's tests reported a failure.

## Things you can try:
- Rerun with the full build output:
~~~
$ gdmach driver-test --verbose
~~~
- Make sure the tree is up to date with ` + "`./mach build`" + ` first`,
	}

	makeNotFoundIssue = &Issue{
		id: MakeNotFoundId,
		mdMsg: `
# make could not be started!

Build targets are run with make (mozmake on Windows).

## Things you can try:
- Check that make is on your PATH
- Point gdmach at another make program in the config file:
~~~toml
[build]
make = "gmake"
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The gdmach config file could not be read or does not match the schema.

## Things you can try:
- Show where gdmach looks for its config file:
~~~
$ gdmach config path
~~~
- Write a fresh default file and compare:
~~~
$ gdmach config init --force
~~~
- Check the error above for the offending field and line`,
	}

	issues = map[Id]*Issue{
		driverNotBuiltIssue.Id():        driverNotBuiltIssue,
		appNotBuiltIssue.Id():           appNotBuiltIssue,
		objdirNotFoundIssue.Id():        objdirNotFoundIssue,
		debuggerNotFoundIssue.Id():      debuggerNotFoundIssue,
		debuggerArgsNeedShellIssue.Id(): debuggerArgsNeedShellIssue,
		selfTestFailedIssue.Id():        selfTestFailedIssue,
		makeNotFoundIssue.Id():          makeNotFoundIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
	}
)

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
