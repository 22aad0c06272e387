package types

// DiagnosisCause classifies why extraction failed.
type DiagnosisCause string

const (
	// CauseJavaScriptApp means content is rendered client-side and hidden from plain HTML
	CauseJavaScriptApp DiagnosisCause = "javascript_app"
	// CauseIframe means the posting lives in an embedded frame
	CauseIframe DiagnosisCause = "iframe"
	// CauseShadowDOM means the posting is inside shadow roots
	CauseShadowDOM DiagnosisCause = "shadow_dom"
	// CauseKnownDomain means the site is known to block automated extraction
	CauseKnownDomain DiagnosisCause = "known_domain"
	// CauseUnknown is the generic fallback
	CauseUnknown DiagnosisCause = "unknown"
)

// FrameworkFlags records frontend framework fingerprints found in a page.
type FrameworkFlags struct {
	React   bool `json:"react,omitempty"`
	Vue     bool `json:"vue,omitempty"`
	Angular bool `json:"angular,omitempty"`
	NextJS  bool `json:"nextjs,omitempty"`
	Nuxt    bool `json:"nuxt,omitempty"`
	Svelte  bool `json:"svelte,omitempty"`
}

// Any reports whether any framework was detected.
func (f FrameworkFlags) Any() bool {
	return f.React || f.Vue || f.Angular || f.NextJS || f.Nuxt || f.Svelte
}

// Names lists the detected frameworks.
func (f FrameworkFlags) Names() []string {
	var names []string
	if f.React {
		names = append(names, "React")
	}
	if f.Vue {
		names = append(names, "Vue")
	}
	if f.Angular {
		names = append(names, "Angular")
	}
	if f.NextJS {
		names = append(names, "Next.js")
	}
	if f.Nuxt {
		names = append(names, "Nuxt")
	}
	if f.Svelte {
		names = append(names, "Svelte")
	}
	return names
}

// ExtractionDiagnosis explains a failed or low-yield extraction.
// It is produced only on the failure path and always recommends a manual step.
type ExtractionDiagnosis struct {
	URL               string         `json:"url"`
	HTMLSize          int            `json:"html_size"`
	ScriptToHTMLRatio float64        `json:"script_to_html_ratio"`
	VisibleTextLength int            `json:"visible_text_length"`
	Frameworks        FrameworkFlags `json:"frameworks"`
	HasIframe         bool           `json:"has_iframe"`
	HasShadowDOM      bool           `json:"has_shadow_dom"`
	Cause             DiagnosisCause `json:"cause"`
	RecommendedAction string         `json:"recommended_action"`
	ManualSteps       []string       `json:"manual_steps,omitempty"`
	TechnicalDetails  []string       `json:"technical_details,omitempty"`
}
