package notifi

const targetGroupFields = `
  id
  name
  emailTargets { id name emailAddress isConfirmed confirmationUrl }
  smsTargets { id name phoneNumber isConfirmed confirmationUrl }
  telegramTargets { id name telegramId isConfirmed confirmationUrl }
`

const alertFields = `
  id
  name
  filter { id name filterType }
  sourceGroup { id name sources { id name type blockchainAddress } }
  targetGroup {` + targetGroupFields + `}
`

const fetchConfigurationQuery = `query fetchConfiguration {
  configuration: getConfigurationForDapp {
    supportedTargetTypes
  }
}`

const fetchDataQuery = `query fetchData {
  alerts: getAlerts {` + alertFields + `}
  sources: getSources { id name type blockchainAddress }
  filters: getFilters { id name filterType }
  targetGroups: getTargetGroups {` + targetGroupFields + `}
  emailTargets: getEmailTargets { id name emailAddress isConfirmed confirmationUrl }
  smsTargets: getSmsTargets { id name phoneNumber isConfirmed confirmationUrl }
  telegramTargets: getTelegramTargets { id name telegramId isConfirmed confirmationUrl }
}`

const createAlertMutation = `mutation createAlert(
  $name: String!
  $emailAddress: String
  $phoneNumber: String
  $telegramId: String
  $sourceId: String!
  $filterId: String!
) {
  alert: createAlert(alertInput: {
    name: $name
    emailAddress: $emailAddress
    phoneNumber: $phoneNumber
    telegramId: $telegramId
    sourceId: $sourceId
    filterId: $filterId
  }) {` + alertFields + `}
}`

const updateAlertMutation = `mutation updateAlert(
  $alertId: String!
  $emailAddress: String
  $phoneNumber: String
  $telegramId: String
) {
  alert: updateAlert(alertInput: {
    alertId: $alertId
    emailAddress: $emailAddress
    phoneNumber: $phoneNumber
    telegramId: $telegramId
  }) {` + alertFields + `}
}`

const deleteAlertMutation = `mutation deleteAlert(
  $alertId: String!
  $keepSourceGroup: Boolean
  $keepTargetGroup: Boolean
) {
  alert: deleteAlert(alertId: $alertId, keepSourceGroup: $keepSourceGroup, keepTargetGroup: $keepTargetGroup) {
    id
  }
}`

const logInFromDappMutation = `mutation logInFromDapp(
  $walletPublicKey: String!
  $dappAddress: String!
  $timestamp: Long!
  $signature: String!
) {
  user: logInFromDapp(dappLogInInput: {
    walletPublicKey: $walletPublicKey
    dappAddress: $dappAddress
    timestamp: $timestamp
  }, signature: $signature) {
    authorization { token expiry }
  }
}`
