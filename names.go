package ngspec

// Database names.
const (
	DatabaseGateway = "gateway"
)

// Schema kinds.
const (
	KindTag  = "TAG"
	KindEdge = "EDGE"
)

// VID generation functions understood by the import engine.
const (
	VidFunctionHash = "hash"
	VidFunctionUUID = "uuid"
)

// Reserved property names of an assembled edge mapping.
const (
	EdgeSrcID = "srcId"
	EdgeDstID = "dstId"
	EdgeRank  = "rank"
)

// Import job defaults, used when a setting is absent or not positive.
const (
	DefaultRetry             = 3
	DefaultConcurrency       = 10
	DefaultChannelBufferSize = 128
	DefaultBatchSize         = 60
	DefaultQuantityLimit     = 100
	DefaultDelimiter         = ","
)

// ImportSpecVersion is the job specification version emitted by the compiler.
const ImportSpecVersion = "v2"
