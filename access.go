package winsvc

// ManagerAccess is the access mask presented when opening a handle to the
// service control manager.
type ManagerAccess uint32

const (
	ManagerConnect          ManagerAccess = 0x0001
	ManagerCreateService    ManagerAccess = 0x0002
	ManagerEnumerateService ManagerAccess = 0x0004
	ManagerLock             ManagerAccess = 0x0008
	ManagerQueryLockStatus  ManagerAccess = 0x0010
	ManagerModifyBootConfig ManagerAccess = 0x0020
	ManagerAllAccess        ManagerAccess = 0xF003F
)

const (
	ManagerGenericRead    = ManagerEnumerateService | ManagerQueryLockStatus
	ManagerGenericWrite   = ManagerCreateService | ManagerModifyBootConfig
	ManagerGenericExecute = ManagerConnect | ManagerLock
	ManagerGenericAll     = ManagerAllAccess
)

// ServiceAccess is the access mask presented when opening or creating a
// single service.
type ServiceAccess uint32

const (
	ServiceQueryConfig         ServiceAccess = 0x0001
	ServiceChangeConfig        ServiceAccess = 0x0002
	ServiceQueryStatus         ServiceAccess = 0x0004
	ServiceEnumerateDependents ServiceAccess = 0x0008
	ServiceStart               ServiceAccess = 0x0010
	ServiceStop                ServiceAccess = 0x0020
	ServicePauseContinue       ServiceAccess = 0x0040
	ServiceInterrogate         ServiceAccess = 0x0080
	ServiceUserDefinedControl  ServiceAccess = 0x0100
	ServiceAllAccess           ServiceAccess = 0xF01FF

	// Standard object rights.
	ServiceDelete      ServiceAccess = 0x10000
	ServiceReadControl ServiceAccess = 0x20000
	ServiceWriteDac    ServiceAccess = 0x40000
	ServiceWriteOwner  ServiceAccess = 0x80000
)

const (
	ServiceGenericRead    = ServiceQueryConfig | ServiceQueryStatus | ServiceInterrogate | ServiceEnumerateDependents
	ServiceGenericWrite   = ServiceChangeConfig
	ServiceGenericExecute = ServiceStart | ServiceStop | ServicePauseContinue | ServiceUserDefinedControl
)

// Type is the service type bit set. The driver and process variants are
// mutually exclusive; TypeInteractive combines with the process variants.
type Type uint32

const (
	TypeKernelDriver     Type = 0x0001
	TypeFileSystemDriver Type = 0x0002
	TypeAdapter          Type = 0x0004
	TypeRecognizerDriver Type = 0x0008
	TypeOwnProcess       Type = 0x0010
	TypeShareProcess     Type = 0x0020
	TypeInteractive      Type = 0x0100
)

// StartType selects when the service control manager starts the service.
type StartType uint32

const (
	StartBoot      StartType = 0
	StartSystem    StartType = 1
	StartAutomatic StartType = 2
	StartManual    StartType = 3
	StartDisabled  StartType = 4
)

// ErrorControl selects the action taken when the service fails to start.
type ErrorControl uint32

const (
	ErrorIgnore   ErrorControl = 0
	ErrorNormal   ErrorControl = 1
	ErrorSevere   ErrorControl = 2
	ErrorCritical ErrorControl = 3
)

// Field names one editable configuration field. Fields combine as a bit set
// when selecting the subset of fields an update should change.
type Field uint32

const (
	FieldServiceType Field = 1 << iota
	FieldStartType
	FieldErrorControl
	FieldBinaryPathName
	FieldLoadOrderGroup
	FieldDependencies
	FieldDisplayName
)

// FieldAll selects every editable field. The start account is not editable
// through this package.
const FieldAll = FieldServiceType | FieldStartType | FieldErrorControl |
	FieldBinaryPathName | FieldLoadOrderGroup | FieldDependencies | FieldDisplayName
