// Package templates provides the embedded files written into new projects.
//
// Assets are addressed by name (their path under assets/). Names ending in
// .tmpl are rendered with text/template; everything else is copied verbatim.
package templates

import (
	"bytes"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/subosito/gotenv"
)

//go:embed assets
var FS embed.FS

const root = "assets"

// Asset names.
const (
	SvelteConfig   = "tailwind/svelte.config.js"
	TailwindConfig = "tailwind/tailwind.config.js"
	AppCSS         = "tailwind/app.css"
	Layout         = "tailwind/+layout.svelte"

	PrismaSchema = "prisma/schema.prisma"
	PrismaClient = "prisma/prisma.ts"
	AuthConfig   = "auth/auth.ts"
	AuthHooks    = "auth/hooks.server.ts"

	AuthEnv   = "env/auth.env"
	StripeEnv = "env/stripe.env"

	Page = "page/+page.svelte.tmpl"
	Logo = "static/ltpl_logo.png"
)

// DocsURL is linked from the landing page.
const DocsURL = "https://github.com/louistruptil/LTPL-stack"

// PageData contains the data for page template substitution.
type PageData struct {
	ProjectName string
	LogoPath    string // e.g., "/ltpl_logo.png"
	DocsURL     string
}

// NewPageData returns page data for the given project.
func NewPageData(projectName string) PageData {
	return PageData{
		ProjectName: projectName,
		LogoPath:    "/" + path.Base(Logo),
		DocsURL:     DocsURL,
	}
}

// ReadFile reads a raw asset.
func ReadFile(name string) ([]byte, error) {
	data, err := FS.ReadFile(path.Join(root, name))
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}
	return data, nil
}

// Render returns the asset contents, executing it as a text/template with
// data when the name ends in .tmpl.
func Render(name string, data any) ([]byte, error) {
	content, err := ReadFile(name)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(name, ".tmpl") {
		return content, nil
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Checksum returns the hex SHA-256 of a raw asset.
func Checksum(name string) (string, error) {
	content, err := ReadFile(name)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:]), nil
}

// EnvKeys returns the sorted variable names declared by an env asset.
func EnvKeys(name string) ([]string, error) {
	content, err := ReadFile(name)
	if err != nil {
		return nil, err
	}
	env, err := gotenv.StrictParse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse env template %s: %w", name, err)
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
