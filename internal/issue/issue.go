// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"slices"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

const (
	ToolNotFoundId Id = iota + 1
	ConfigLoadFailedId
	ProjectRootInvalidId
	TargetNotFoundId
	LintFailedId
	ToolLaunchFailedId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink
		extLinks []HttpLink // external links that might be useful for the user
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

// Render renders the issue as terminal Markdown using the given glamour
// style ("dark", "light", "auto", or a path to a style file).
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	toolNotFoundIssue = &Issue{
		id: ToolNotFoundId,
		mdMsg: `
# Lint tool not found!

lintstep could not locate the lint executable it is configured to run.

## Lookup order
1. ` + "`--tool-path`" + ` flag or ` + "`LINTSTEP_TOOL_PATH`" + `
2. ` + "`tool.path`" + ` in your configuration
3. ` + "`tool.name`" + ` looked up on your PATH

## Things you can try
- Install the tool (for swift-format: ` + "`brew install swift-format`" + `)
- Point lintstep at an existing binary:
~~~
$ lintstep --tool-path /opt/toolchain/bin/swift-format plan
~~~`,
		extLinks: []HttpLink{"https://github.com/swiftlang/swift-format"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the lintstep configuration file.

## Configuration file locations
- Linux: ~/.config/lintstep/config.cue
- macOS: ~/Library/Application Support/lintstep/config.cue
- Windows: %APPDATA%\lintstep\config.cue
- ./lintstep.cue in the current directory

## Things you can try
- Create a default configuration:
~~~
$ lintstep config init
~~~

- Check the configuration syntax

## Example configuration
~~~cue
tool: {
  name: "swift-format"
  config_file: ".swift-format"
}
sources: suffix: "swift"
~~~`,
	}

	projectRootInvalidIssue = &Issue{
		id: ProjectRootInvalidId,
		mdMsg: `
# Project root is not usable!

The directory given as project root does not exist or is not a directory.

## Things you can try
- Run lintstep from inside your project
- Pass the root explicitly:
~~~
$ lintstep --root /path/to/project plan
~~~`,
	}

	targetNotFoundIssue = &Issue{
		id: TargetNotFoundId,
		mdMsg: `
# Target not found!

None of the discovered compilation units has the requested name.

## Things you can try
- List the targets lintstep can see:
~~~
$ lintstep targets
~~~
- Check the ` + "`targets`" + ` section of your configuration`,
	}

	lintFailedIssue = &Issue{
		id: LintFailedId,
		mdMsg: `
# Lint step failed!

The lint tool exited with a non-zero status for at least one target.
Its own output above lists the violations.

## Things you can try
- Fix the reported violations, or
- Reproduce a single step with the command printed by:
~~~
$ lintstep plan <target>
~~~`,
	}

	toolLaunchFailedIssue = &Issue{
		id: ToolLaunchFailedId,
		mdMsg: `
# Lint tool could not be started!

The executable was resolved but the operating system refused to start it.

## Common causes
- The file is not executable
- The binary was built for a different platform

## Things you can try
- Check file permissions on the tool
- Run the printed command line by hand to see the raw error`,
	}

	issues = map[Id]*Issue{
		toolNotFoundIssue.Id():       toolNotFoundIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		projectRootInvalidIssue.Id(): projectRootInvalidIssue,
		targetNotFoundIssue.Id():     targetNotFoundIssue,
		lintFailedIssue.Id():         lintFailedIssue,
		toolLaunchFailedIssue.Id():   toolLaunchFailedIssue,
	}
)

// Values returns every catalogued issue ordered by Id.
func Values() []*Issue {
	out := slices.Collect(maps.Values(issues))
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
