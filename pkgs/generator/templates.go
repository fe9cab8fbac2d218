package generator

// Wrapper components. Every format starts with the header and ends with a
// trailing newline.

const headerTemplate = `{{define "header"}}// Code generated by pyjs from {{.Name}}. DO NOT EDIT.
// program {{.ID}}
{{end}}`

const bodyTemplate = `{{define "body"}}{{.Body}}{{end}}`

const scriptTemplate = `{{define "script"}}{{template "header" .}}{{template "body" .}}
{{end}}`

const moduleTemplate = `{{define "module"}}{{template "header" .}}(function () {
"use strict";
{{template "body" .}}
})();
{{end}}`

const nodeTemplate = `{{define "node"}}#!/usr/bin/env node
{{template "header" .}}"use strict";
{{template "body" .}}
{{end}}`
