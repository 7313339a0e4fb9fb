package mcpserver

// DocFormatContract describes how documentation sources are written and
// which front-matter keys the indexer understands.
const DocFormatContract = `# Documentation Source Format

Each document is one Markdown file directly inside the docs directory.

## File names

- The file name without ` + "`" + `.md` + "`" + ` is the document slug (` + "`" + `getting-started.md` + "`" + ` → ` + "`" + `getting-started` + "`" + `).
- Slugs must not start with a dot and must not contain ` + "`" + `/` + "`" + `, ` + "`" + `\` + "`" + ` or ` + "`" + `..` + "`" + `.
- Sub-directories are not indexed. Static files go in ` + "`" + `assets/` + "`" + ` and are
  referenced as ` + "`" + `/assets/<file>` + "`" + `.

## Front matter

` + "```" + `markdown
---
title: Getting Started      # default "Untitled"
category: Guides            # default "General"; groups the sidebar
order: 1                    # integer, default 999; sorts within a category
tags: [intro, setup]        # list or single string
date: 2025-01-15            # default: file creation time
updated: 2025-02-01         # default: file modification time
excerpt: One-line summary.  # optional
---

Body text in Markdown.
` + "```" + `

All keys are optional. Unrecognised keys are kept and returned as-is.

## Excerpts

1. The ` + "`" + `excerpt` + "`" + ` key wins when it is non-blank.
2. Otherwise the text before a ` + "`" + `<!-- excerpt -->` + "`" + ` line is used.
3. Otherwise the first 150 characters of the body, with ` + "`" + `...` + "`" + ` appended when cut.

## Ordering

Documents are listed by category (byte-wise), then by ` + "`" + `order` + "`" + `; equal
values keep file-name order.
`
