package autoscaling

// MaxInstanceIDs is the DescribeAutoScalingInstances limit on instance IDs per call.
const MaxInstanceIDs = 50
