package latex

type cmdKind int

const (
	cmdSymbol cmdKind = iota
	cmdArgs
	cmdText
	cmdDelimSize
	cmdSqrt
	// cmdInfix splits its group into numerator and denominator (\over, \choose).
	cmdInfix
	// cmdRow ends a row: \\, \newline, \cr.
	cmdRow
)

type cmdSpec struct {
	kind cmdKind
	args int
	// raw is how many leading arguments are read verbatim (colors, operator names).
	raw int
}

type envSpec struct {
	rawArgs     int
	displayOnly bool
}

var symbolNames = []string{
	// greek
	"alpha", "beta", "gamma", "delta", "epsilon", "varepsilon", "zeta", "eta", "theta",
	"vartheta", "iota", "kappa", "lambda", "mu", "nu", "xi", "pi", "varpi", "rho", "varrho",
	"sigma", "varsigma", "tau", "upsilon", "phi", "varphi", "chi", "psi", "omega",
	"Gamma", "Delta", "Theta", "Lambda", "Xi", "Pi", "Sigma", "Upsilon", "Phi", "Psi", "Omega",
	"omicron", "varkappa", "digamma", "varGamma", "varDelta", "varTheta", "varLambda", "varXi",
	"varPi", "varSigma", "varUpsilon", "varPhi", "varPsi", "varOmega", "Alpha", "Beta",
	"Epsilon", "Zeta", "Eta", "Iota", "Kappa", "Mu", "Nu", "Omicron", "Rho", "Tau", "Chi",
	// big operators
	"sum", "prod", "coprod", "int", "iint", "iiint", "oint", "bigcup", "bigcap", "bigoplus",
	"bigotimes", "bigvee", "bigwedge", "bigsqcup", "bigodot", "biguplus", "oiint", "oiiint",
	"limits", "nolimits",
	// functions
	"sin", "cos", "tan", "cot", "sec", "csc", "arcsin", "arccos", "arctan", "sinh", "cosh",
	"tanh", "coth", "log", "ln", "lg", "exp", "lim", "liminf", "limsup", "max", "min", "sup",
	"inf", "det", "dim", "ker", "deg", "gcd", "arg", "hom", "Pr", "bmod", "mod",
	"arcctg", "arctg", "ctg", "tg", "th", "sh", "ch", "cth", "cotg", "argmax", "argmin",
	// binary operators and relations
	"pm", "mp", "times", "div", "cdot", "ast", "star", "circ", "bullet", "oplus", "ominus",
	"otimes", "oslash", "odot", "cup", "cap", "setminus", "wedge", "vee", "land", "lor",
	"leq", "le", "geq", "ge", "neq", "ne", "approx", "equiv", "sim", "simeq", "cong", "propto",
	"ll", "gg", "subset", "supset", "subseteq", "supseteq", "in", "notin", "ni", "mid",
	"parallel", "perp", "models", "vdash", "dashv", "prec", "succ", "preceq", "succeq", "not",
	"leqslant", "geqslant", "coloneqq", "doteq", "lt", "gt", "colon",
	"nmid", "nparallel", "subsetneq", "supsetneq", "subsetneqq", "supsetneqq", "nsubseteq",
	"nsupseteq", "subseteqq", "supseteqq", "sqsubset", "sqsupset", "sqsubseteq", "sqsupseteq",
	"sqcup", "sqcap", "uplus", "amalg", "wr", "ltimes", "rtimes", "leftthreetimes",
	"rightthreetimes", "curlywedge", "curlyvee", "barwedge", "veebar", "doublebarwedge",
	"boxplus", "boxminus", "boxtimes", "boxdot", "circleddash", "circledast", "circledcirc",
	"centerdot", "intercal", "dotplus", "divideontimes", "smallsetminus", "Cap", "Cup",
	"triangleleft", "triangleright", "lhd", "rhd", "unlhd", "unrhd", "bigtriangleup",
	"bigtriangledown", "nleq", "ngeq", "nless", "ngtr", "nleqslant", "ngeqslant", "leqq",
	"geqq", "lneq", "gneq", "lneqq", "gneqq", "lesssim", "gtrsim", "lessapprox", "gtrapprox",
	"lessgtr", "gtrless", "lll", "ggg", "asymp", "bowtie", "smile", "frown", "vDash", "Vdash",
	"nvdash", "nvDash", "nVdash", "ncong", "nsim", "approxeq", "thicksim", "thickapprox",
	"backsim", "eqsim", "nprec", "nsucc", "npreceq", "nsucceq", "precsim", "succsim",
	"varpropto", "pitchfork", "between", "trianglelefteq", "trianglerighteq",
	"ntriangleleft", "ntriangleright", "ntrianglelefteq", "ntrianglerighteq", "owns",
	"notni", "eqcirc", "circeq", "triangleq", "bumpeq", "Bumpeq", "risingdotseq",
	"fallingdotseq", "Join", "And",
	// arrows
	"to", "gets", "rightarrow", "leftarrow", "leftrightarrow", "Rightarrow", "Leftarrow",
	"Leftrightarrow", "implies", "impliedby", "iff", "mapsto", "longrightarrow",
	"longleftarrow", "Longrightarrow", "Longleftarrow", "longmapsto", "uparrow", "downarrow",
	"updownarrow", "Uparrow", "Downarrow", "nearrow", "searrow", "hookrightarrow",
	"rightharpoonup", "rightleftharpoons", "longleftrightarrow", "Longleftrightarrow",
	"Updownarrow", "nwarrow", "swarrow", "hookleftarrow", "leftharpoonup", "leftharpoondown",
	"rightharpoondown", "leftrightharpoons", "upharpoonleft", "upharpoonright",
	"downharpoonleft", "downharpoonright", "restriction", "leftrightarrows",
	"rightleftarrows", "leftleftarrows", "rightrightarrows", "upuparrows", "downdownarrows",
	"twoheadrightarrow", "twoheadleftarrow", "curvearrowright", "curvearrowleft",
	"circlearrowleft", "circlearrowright", "leadsto", "rightsquigarrow",
	"leftrightsquigarrow", "looparrowleft", "looparrowright", "Lsh", "Rsh", "Lleftarrow",
	"Rrightarrow", "dashrightarrow", "dashleftarrow", "nrightarrow", "nleftarrow",
	"nRightarrow", "nLeftarrow", "nleftrightarrow", "nLeftrightarrow", "multimap",
	// misc
	"infty", "partial", "nabla", "forall", "exists", "nexists", "emptyset", "varnothing",
	"neg", "lnot", "angle", "triangle", "prime", "hbar", "ell", "Re", "Im", "aleph", "wp",
	"ldots", "cdots", "vdots", "ddots", "dots", "therefore", "because", "top", "bot",
	"langle", "rangle", "lfloor", "rfloor", "lceil", "rceil", "lvert", "rvert", "lVert",
	"rVert", "vert", "Vert", "backslash", "degree", "checkmark", "square", "Box", "diamond",
	"clubsuit", "heartsuit", "spadesuit", "flat", "sharp", "natural", "dagger", "ddagger",
	"S", "P", "copyright", "circledR", "cdotp", "ldotp", "lbrace", "rbrace", "lbrack", "rbrack",
	"lgroup", "rgroup", "complement", "mho", "eth", "beth", "gimel", "daleth", "imath",
	"jmath", "Bbbk", "hslash", "surd", "blacksquare", "lozenge", "blacklozenge", "bigstar",
	"triangledown", "vartriangle", "blacktriangle", "blacktriangledown", "circledS",
	"measuredangle", "sphericalangle", "backprime", "diagup", "diagdown", "mathellipsis",
	"dotsb", "dotsc", "dotsi", "dotsm", "dotso", "iddots", "pounds", "yen", "maltese", "Finv",
	"Game",
	// spacing and style
	"quad", "qquad", "displaystyle", "textstyle", "scriptstyle", "scriptscriptstyle",
	"nonumber", "notag", "hline", "hdashline", "relax", "mathstrut", "enspace", "enskip",
	"thinspace", "medspace", "thickspace", "negthinspace", "negmedspace", "negthickspace",
	"space", "nobreakspace", "nobreak", "allowbreak", "strut",
	"rm", "bf", "it", "sf", "tt", "cal",
	"tiny", "scriptsize", "footnotesize", "small", "normalsize", "large", "Large", "LARGE",
	"huge", "Huge",
}

var infixCommands = []string{"over", "choose", "atop", "brace", "brack"}

var rowCommands = []string{`\\`, `\newline`, `\cr`}

var argCommands = map[string]int{
	"frac": 2, "dfrac": 2, "tfrac": 2, "cfrac": 2, "binom": 2, "dbinom": 2, "tbinom": 2,
	"overset": 2, "underset": 2, "stackrel": 2, "overbrace": 1, "underbrace": 1,
	"hat": 1, "widehat": 1, "bar": 1, "overline": 1, "underline": 1, "vec": 1, "dot": 1,
	"ddot": 1, "tilde": 1, "widetilde": 1, "check": 1, "breve": 1, "acute": 1, "grave": 1,
	"mathring": 1, "overrightarrow": 1, "overleftarrow": 1, "boxed": 1, "cancel": 1,
	"bcancel": 1, "xcancel": 1, "phantom": 1, "hphantom": 1, "vphantom": 1,
	"mathbf": 1, "mathit": 1, "mathrm": 1, "mathsf": 1, "mathtt": 1, "mathcal": 1,
	"mathbb": 1, "mathfrak": 1, "mathscr": 1, "bm": 1, "boldsymbol": 1, "pmb": 1,
	"pmod": 1, "pod": 1, "xrightarrow": 1, "xleftarrow": 1, "substack": 1,
	"xleftrightarrow": 1, "xRightarrow": 1, "xLeftarrow": 1, "xLeftrightarrow": 1,
	"xmapsto": 1, "xhookrightarrow": 1, "xhookleftarrow": 1, "overleftrightarrow": 1,
	"underleftarrow": 1, "underrightarrow": 1, "underleftrightarrow": 1, "utilde": 1,
	"overgroup": 1, "undergroup": 1, "mathnormal": 1, "mathbin": 1, "mathrel": 1,
	"mathord": 1, "mathopen": 1, "mathclose": 1, "mathpunct": 1, "mathinner": 1,
	"bra": 1, "ket": 1, "braket": 1, "Bra": 1, "Ket": 1, "cancelto": 2, "sout": 1,
	"smash": 1, "llap": 1, "rlap": 1, "clap": 1, "mathllap": 1, "mathrlap": 1, "mathclap": 1,
	"Bbb": 1, "bold": 1, "frak": 1,
}

var textCommands = []string{
	"text", "textbf", "textit", "textrm", "textsf", "texttt", "textup", "emph", "mbox",
	"operatorname", "mathop", "label", "tag", "textnormal", "textsl", "hbox", "fbox",
}

var rawArgCommands = map[string]cmdSpec{
	"color":     {kind: cmdText, args: 1, raw: 1},
	"textcolor": {kind: cmdArgs, args: 2, raw: 1},
	"colorbox":  {kind: cmdArgs, args: 2, raw: 1},
	"hspace":    {kind: cmdText, args: 1, raw: 1},
}

var sizeCommands = []string{
	"left", "right", "middle", "big", "Big", "bigg", "Bigg", "bigl", "bigr", "Bigl", "Bigr",
	"biggl", "biggr", "Biggl", "Biggr",
}

// escapes are the single-character control sequences.
var escapes = `\{}$%&#_|,;:!> `

var delimiterChars = "()[]|./<>"

var delimiterCommands = []string{
	`\{`, `\}`, `\|`, `\langle`, `\rangle`, `\lvert`, `\rvert`, `\lVert`, `\rVert`,
	`\lfloor`, `\rfloor`, `\lceil`, `\rceil`, `\uparrow`, `\downarrow`, `\updownarrow`,
	`\Uparrow`, `\Downarrow`, `\backslash`, `\vert`, `\Vert`, `\lbrace`, `\rbrace`,
	`\lbrack`, `\rbrack`, `\lgroup`, `\rgroup`, `\lt`, `\gt`, `\Updownarrow`,
}

var environments = map[string]envSpec{
	"matrix": {}, "pmatrix": {}, "bmatrix": {}, "Bmatrix": {}, "vmatrix": {}, "Vmatrix": {},
	"smallmatrix": {}, "cases": {}, "dcases": {}, "rcases": {}, "aligned": {},
	"gathered": {}, "split": {}, "array": {rawArgs: 1}, "darray": {rawArgs: 1},
	"subarray": {rawArgs: 1}, "alignedat": {rawArgs: 1},
	"align": {displayOnly: true}, "align*": {displayOnly: true},
	"gather": {displayOnly: true}, "gather*": {displayOnly: true},
	"equation": {displayOnly: true}, "equation*": {displayOnly: true},
}

func buildCommandTable() map[string]cmdSpec {
	table := make(map[string]cmdSpec, 400)
	for _, name := range symbolNames {
		table[`\`+name] = cmdSpec{kind: cmdSymbol}
	}
	for name, n := range argCommands {
		table[`\`+name] = cmdSpec{kind: cmdArgs, args: n}
	}
	for _, name := range textCommands {
		table[`\`+name] = cmdSpec{kind: cmdText, args: 1, raw: 1}
	}
	for name, spec := range rawArgCommands {
		table[`\`+name] = spec
	}
	for _, name := range sizeCommands {
		table[`\`+name] = cmdSpec{kind: cmdDelimSize}
	}
	for _, r := range escapes {
		table[`\`+string(r)] = cmdSpec{kind: cmdSymbol}
	}
	for _, name := range infixCommands {
		table[`\`+name] = cmdSpec{kind: cmdInfix}
	}
	for _, name := range rowCommands {
		table[name] = cmdSpec{kind: cmdRow}
	}
	table[`\sqrt`] = cmdSpec{kind: cmdSqrt, args: 1}
	return table
}

func buildDelimiterSet() map[string]struct{} {
	set := make(map[string]struct{}, len(delimiterChars)+len(delimiterCommands))
	for _, r := range delimiterChars {
		set[string(r)] = struct{}{}
	}
	for _, name := range delimiterCommands {
		set[name] = struct{}{}
	}
	return set
}
